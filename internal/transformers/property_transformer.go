package transformers

import (
	"time"

	"realestate-catalog/internal/models"
)

type PropertyResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	Price          float64         `json:"price"`
	IdOwner        string          `json:"idOwner"`
	Image          string          `json:"image,omitempty"`
	Images         []ImageResponse `json:"images"`
	Owner          *OwnerResponse  `json:"owner,omitempty"`
	CodigoInternal string          `json:"codigoInternal,omitempty"`
	Year           *int            `json:"year,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	Country        string          `json:"country"`
}

type ImageResponse struct {
	ID          string `json:"id"`
	File        string `json:"file"`
	Enabled     bool   `json:"enabled"`
	IsMain      bool   `json:"isMain"`
	Description string `json:"description,omitempty"`
}

type OwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type propertyTransformer struct{}

func NewPropertyTransformer() PropertyTransformer {
	return &propertyTransformer{}
}

// ToResponse flattens a hydrated property. Disabled images are left out, and
// the cover image falls back to the first enabled one when none is main.
func (t *propertyTransformer) ToResponse(p *models.Property) PropertyResponse {
	resp := PropertyResponse{
		ID:             p.ID.Hex(),
		Name:           p.Name,
		Address:        p.Address,
		Price:          p.Price,
		IdOwner:        p.IdOwner.Hex(),
		Images:         []ImageResponse{},
		CodigoInternal: p.CodigoInternal,
		Year:           p.Year,
		CreatedAt:      p.CreatedAt,
	}

	for _, img := range p.Images {
		if !img.Enabled {
			continue
		}
		resp.Images = append(resp.Images, ImageResponse{
			ID:          img.ID.Hex(),
			File:        img.CloudinaryUrl,
			Enabled:     img.Enabled,
			IsMain:      img.IsMain,
			Description: img.Description,
		})
		if resp.Image == "" {
			resp.Image = img.CloudinaryUrl
		}
	}
	if main, ok := p.MainImage(); ok {
		resp.Image = main.CloudinaryUrl
	}

	if p.Owner != nil {
		resp.Owner = &OwnerResponse{
			ID:    p.Owner.ID.Hex(),
			Name:  p.Owner.FullName(),
			Photo: p.Owner.Photo,
			Phone: p.Owner.Phone,
			Email: p.Owner.Email,
		}
	}

	if pl, ok := p.Place(models.PlaceCity); ok {
		resp.City = pl.Value
	}
	if pl, ok := p.Place(models.PlaceState); ok {
		resp.State = pl.Value
	}
	if pl, ok := p.Place(models.PlaceCountry); ok {
		resp.Country = pl.Value
	}
	return resp
}

func (t *propertyTransformer) ToResponses(properties []models.Property) []PropertyResponse {
	out := make([]PropertyResponse, 0, len(properties))
	for i := range properties {
		out = append(out, t.ToResponse(&properties[i]))
	}
	return out
}

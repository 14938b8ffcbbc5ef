package models

import "time"

// PropertyInput carries create and update requests. On update, nil fields are
// left unchanged.
type PropertyInput struct {
	Name           *string  `json:"name" validate:"omitempty,max=200"`
	Address        *string  `json:"address" validate:"omitempty,max=300"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
	CodigoInternal *string  `json:"codigoInternal" validate:"omitempty,max=50"`
	IdOwner        *string  `json:"idOwner" validate:"omitempty,len=24,hexadecimal"`
	Year           *int     `json:"year" validate:"omitempty,gte=1800,lte=2100"`
	City           *string  `json:"city" validate:"omitempty,max=100"`
	State          *string  `json:"state" validate:"omitempty,max=100"`
	Country        *string  `json:"country" validate:"omitempty,max=100"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// Places returns the location places named by the input, keyed by tag.
func (in *PropertyInput) Places() map[string]string {
	places := make(map[string]string, 3)
	for tag, v := range map[string]*string{PlaceCity: in.City, PlaceState: in.State, PlaceCountry: in.Country} {
		if v != nil && *v != "" {
			places[tag] = *v
		}
	}
	return places
}

type OwnerInput struct {
	Name     *string    `json:"name" validate:"omitempty,max=100"`
	LastName *string    `json:"lastName" validate:"omitempty,max=100"`
	Phone    *string    `json:"phone" validate:"omitempty,max=30"`
	Photo    *string    `json:"photo" validate:"omitempty,url"`
	Email    *string    `json:"email" validate:"omitempty,email"`
	Birthday *time.Time `json:"birthday"`
}

type TraceInput struct {
	IdProperty *string    `json:"idProperty" validate:"omitempty,len=24,hexadecimal"`
	DateSale   *time.Time `json:"dateSale"`
	Name       *string    `json:"name" validate:"omitempty,max=200"`
	Value      *float64   `json:"value" validate:"omitempty,gte=0"`
	Tax        *float64   `json:"tax" validate:"omitempty,gte=0"`
}

type PlaceInput struct {
	Name      string   `json:"name"`
	Value     string   `json:"value"`
	PlaceType string   `json:"placeType"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// ImageUpload describes a photo received for a property.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Description string
	IsMain      bool
}

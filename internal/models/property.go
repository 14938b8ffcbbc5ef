package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const PropertyCollection = "Property"

// Property is stored without its relations. Owner, Images and Places are
// attached in memory by the join engine.
type Property struct {
	Base           `bson:",inline"`
	Name           string             `bson:"Name" json:"name"`
	Address        string             `bson:"Address" json:"address"`
	Price          float64            `bson:"Price" json:"price"`
	CodigoInternal string             `bson:"CodigoInternal,omitempty" json:"codigoInternal,omitempty"`
	IdOwner        primitive.ObjectID `bson:"IdOwner" json:"idOwner"`
	Year           *int               `bson:"Year,omitempty" json:"year,omitempty"`

	Owner  *Owner          `bson:"-" json:"owner,omitempty"`
	Images []PropertyImage `bson:"-" json:"images,omitempty"`
	Places []PropertyPlace `bson:"-" json:"places,omitempty"`
}

// Place returns the first attached place carrying tag, compared case-insensitively.
func (p *Property) Place(tag string) (PropertyPlace, bool) {
	for _, pl := range p.Places {
		if strings.EqualFold(pl.Name, tag) {
			return pl, true
		}
	}
	return PropertyPlace{}, false
}

// MainImage returns the enabled image flagged as main, if any.
func (p *Property) MainImage() (PropertyImage, bool) {
	for _, img := range p.Images {
		if img.Enabled && img.IsMain {
			return img, true
		}
	}
	return PropertyImage{}, false
}

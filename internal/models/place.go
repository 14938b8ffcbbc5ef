package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const PlaceCollection = "PropertyPlace"

// Well-known place tags. The vocabulary is open.
const (
	PlaceCity    = "City"
	PlaceState   = "State"
	PlaceCountry = "Country"
)

type PropertyPlace struct {
	Base       `bson:",inline"`
	IdProperty primitive.ObjectID `bson:"IdProperty" json:"idProperty"`
	Name       string             `bson:"Name" json:"name"`
	Value      string             `bson:"Value" json:"value"`
	PlaceType  string             `bson:"PlaceType" json:"placeType"`
	Latitude   *float64           `bson:"Latitude,omitempty" json:"latitude,omitempty"`
	Longitude  *float64           `bson:"Longitude,omitempty" json:"longitude,omitempty"`
	Geohash    string             `bson:"Geohash,omitempty" json:"geohash,omitempty"`
}

// CanonicalTag maps known tags to their stored spelling and leaves others trimmed.
func CanonicalTag(tag string) string {
	tag = strings.TrimSpace(tag)
	for _, known := range []string{PlaceCity, PlaceState, PlaceCountry} {
		if strings.EqualFold(tag, known) {
			return known
		}
	}
	return tag
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const TraceCollection = "PropertyTrace"

// PropertyTrace is one entry of a property's sale history.
type PropertyTrace struct {
	Base       `bson:",inline"`
	IdProperty primitive.ObjectID `bson:"IdProperty" json:"idProperty"`
	DateSale   time.Time          `bson:"DateSale" json:"dateSale"`
	Name       string             `bson:"Name" json:"name"`
	Value      float64            `bson:"Value" json:"value"`
	Tax        float64            `bson:"Tax" json:"tax"`
}

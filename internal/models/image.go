package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ImageCollection = "PropertyImage"

// PropertyImage is soft-deleted through Enabled. Per property at most one
// enabled image carries IsMain.
type PropertyImage struct {
	Base               `bson:",inline"`
	IdProperty         primitive.ObjectID `bson:"IdProperty" json:"idProperty"`
	CloudinaryPublicId string             `bson:"CloudinaryPublicId" json:"publicId"`
	CloudinaryUrl      string             `bson:"CloudinaryUrl" json:"url"`
	OriginalFileName   string             `bson:"OriginalFileName" json:"originalFileName"`
	Width              int                `bson:"Width" json:"width"`
	Height             int                `bson:"Height" json:"height"`
	Format             string             `bson:"Format" json:"format"`
	Bytes              int64              `bson:"Bytes" json:"bytes"`
	Enabled            bool               `bson:"Enabled" json:"enabled"`
	IsMain             bool               `bson:"IsMain" json:"isMain"`
	Description        string             `bson:"Description" json:"description"`
}

// ResponsiveURLs are the fixed renditions served to clients.
type ResponsiveURLs struct {
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail"`
	Medium    string `json:"medium"`
	Large     string `json:"large"`
}

// Rendition sizes, width x height.
var (
	ThumbnailSize = [2]int{150, 150}
	MediumSize    = [2]int{800, 600}
	LargeSize     = [2]int{1200, 900}
)

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is implemented by every persisted entity through the embedded Base.
type Document interface {
	GetID() primitive.ObjectID
	PrepareInsert(now time.Time)
	PrepareUpdate(now time.Time)
}

// Base holds the identifier and audit timestamps shared by all collections.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"CreatedAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"UpdatedAt" json:"updatedAt"`
}

func (b *Base) GetID() primitive.ObjectID { return b.ID }

// PrepareInsert assigns an id when missing and stamps both timestamps.
func (b *Base) PrepareInsert(now time.Time) {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	b.CreatedAt = now
	b.UpdatedAt = now
}

func (b *Base) PrepareUpdate(now time.Time) {
	b.UpdatedAt = now
}

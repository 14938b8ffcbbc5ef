package models

import (
	"strings"
	"time"
)

const OwnerCollection = "Owner"

type Owner struct {
	Base     `bson:",inline"`
	Name     string     `bson:"Name" json:"name"`
	LastName string     `bson:"LastName" json:"lastName"`
	Phone    string     `bson:"Phone" json:"phone"`
	Photo    string     `bson:"Photo" json:"photo"`
	Birthday *time.Time `bson:"Birthday,omitempty" json:"birthday,omitempty"`
	Email    string     `bson:"Email,omitempty" json:"email,omitempty"`
}

// FullName is first and last name joined by a space, trimmed at both ends.
func (o *Owner) FullName() string {
	return strings.TrimSpace(o.Name + " " + o.LastName)
}

package query

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

var sortFields = map[string]string{
	"name":      "Name",
	"price":     "Price",
	"address":   "Address",
	"createdat": "CreatedAt",
}

// ResolveSort maps a sort key and direction to a store ordering. Unknown or
// empty keys fall back to newest first. "desc" in any case sorts descending;
// every other direction sorts ascending. _id is appended in the same direction
// so pages never overlap when the primary key ties.
func ResolveSort(sortBy, direction string) bson.D {
	field, ok := sortFields[strings.ToLower(strings.TrimSpace(sortBy))]
	if !ok {
		return bson.D{{Key: "CreatedAt", Value: -1}, {Key: "_id", Value: -1}}
	}

	order := 1
	if strings.EqualFold(strings.TrimSpace(direction), "desc") {
		order = -1
	}
	return bson.D{{Key: field, Value: order}, {Key: "_id", Value: order}}
}

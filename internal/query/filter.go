// Package query turns catalog search input into MongoDB predicates, orderings
// and page windows, and evaluates the relational filters that span collections.
package query

import (
	"regexp"
	"strings"

	"realestate-catalog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompileFilter builds the predicate for fields stored on the Property
// document. Absent fields contribute no clause; the result of an empty filter
// matches every document.
func CompileFilter(f models.PropertyFilter) bson.D {
	filter := bson.D{}

	if name := strings.TrimSpace(f.Name); name != "" {
		filter = append(filter, bson.E{Key: "Name", Value: Contains(name)})
	}
	if address := strings.TrimSpace(f.Address); address != "" {
		filter = append(filter, bson.E{Key: "Address", Value: Contains(address)})
	}

	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter = append(filter, bson.E{Key: "Price", Value: price})
	}

	if f.Year != nil {
		filter = append(filter, bson.E{Key: "Year", Value: *f.Year})
	}
	return filter
}

// Contains is a case-insensitive substring match. The term is matched
// literally, so regex metacharacters in user input have no special meaning.
func Contains(term string) bson.M {
	return bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}}
}

// Exact is a case-insensitive whole-value match.
func Exact(term string) bson.M {
	return bson.M{"$regex": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(term) + "$", Options: "i"}}
}

// RestrictIDs narrows filter to the given property ids.
func RestrictIDs(filter bson.D, ids []primitive.ObjectID) bson.D {
	return append(filter, bson.E{Key: "_id", Value: bson.M{"$in": ids}})
}

// RestrictOwners narrows filter to properties held by the given owners.
func RestrictOwners(filter bson.D, ownerIDs []primitive.ObjectID) bson.D {
	return append(filter, bson.E{Key: "IdOwner", Value: bson.M{"$in": ownerIDs}})
}

package transformers

import (
	"realestate-catalog/internal/models"
)

type PropertyTransformer interface {
	ToResponse(property *models.Property) PropertyResponse
	ToResponses(properties []models.Property) []PropertyResponse
}

type AddressTransformer interface {
	NormalizeAddressComponent(input string) string
	ParseAddress(address string) ParsedAddress
}

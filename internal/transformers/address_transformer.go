package transformers

import (
	"strings"
)

// ParsedAddress is a free-form address split on commas as
// "street, city, state[, country]".
type ParsedAddress struct {
	Street  string
	City    string
	State   string
	Country string
}

type addressTransformer struct{}

func NewAddressTransformer() AddressTransformer {
	return &addressTransformer{}
}

// NormalizeAddressComponent trims the input and collapses inner runs of
// whitespace to a single space. Case is preserved.
func (t *addressTransformer) NormalizeAddressComponent(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

func (t *addressTransformer) ParseAddress(address string) ParsedAddress {
	address = t.NormalizeAddressComponent(address)
	if address == "" {
		return ParsedAddress{}
	}

	parts := strings.Split(address, ",")
	for i, part := range parts {
		parts[i] = t.NormalizeAddressComponent(part)
	}

	parsed := ParsedAddress{Street: parts[0]}
	if len(parts) > 1 {
		parsed.City = parts[1]
	}
	if len(parts) > 2 {
		parsed.State = parts[2]
	}
	if len(parts) > 3 {
		parsed.Country = strings.Join(parts[3:], ", ")
	}
	return parsed
}

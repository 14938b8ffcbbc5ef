package query

import (
	"strings"

	"realestate-catalog/internal/models"
)

// MatchesLocation reports whether, for every tag in terms, some attached place
// has that tag and a value containing the term. An empty terms map matches.
func MatchesLocation(p *models.Property, terms map[string]string) bool {
	for tag, term := range terms {
		if !hasPlace(p.Places, tag, term) {
			return false
		}
	}
	return true
}

func hasPlace(places []models.PropertyPlace, tag, term string) bool {
	for _, pl := range places {
		if EqualFold(pl.Name, tag) && ContainsFold(pl.Value, term) {
			return true
		}
	}
	return false
}

// MatchesOwnerName reports whether the attached owner's first, last or full
// name contains term. A property without an owner never matches.
func MatchesOwnerName(p *models.Property, term string) bool {
	if p.Owner == nil {
		return false
	}
	return ContainsFold(p.Owner.Name, term) ||
		ContainsFold(p.Owner.LastName, term) ||
		ContainsFold(p.Owner.FullName(), term)
}

// Drops counts properties removed by each relational filter.
type Drops struct {
	Location  int
	OwnerName int
}

func (d Drops) Total() int { return d.Location + d.OwnerName }

// FilterRelational keeps the hydrated properties satisfying the location and
// owner-name criteria of f. Order is preserved.
func FilterRelational(props []models.Property, f models.PropertyFilter) ([]models.Property, Drops) {
	var drops Drops
	terms := f.LocationTerms()
	owner := strings.TrimSpace(f.OwnerName)
	if len(terms) == 0 && owner == "" {
		return props, drops
	}

	kept := make([]models.Property, 0, len(props))
	for i := range props {
		p := &props[i]
		if !MatchesLocation(p, terms) {
			drops.Location++
			continue
		}
		if owner != "" && !MatchesOwnerName(p, owner) {
			drops.OwnerName++
			continue
		}
		kept = append(kept, *p)
	}
	return kept, drops
}

package domain

import (
	"path/filepath"
	"strings"
)

// DefaultCategories are seeded on first start and used as bulk-upload
// detection targets.
var DefaultCategories = []string{"administrative", "financial", "personal", "professional", "other"}

// FallbackCategory receives bulk uploads whose filename matches no keyword.
const FallbackCategory = "other"

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"administrative", []string{"contrat", "attestation", "certificat", "formulaire", "admin"}},
	{"financial", []string{"facture", "devis", "budget", "finance", "comptable"}},
	{"personal", []string{"cv", "lettre", "motivation", "personnel"}},
	{"professional", []string{"rapport", "presentation", "projet", "reunion", "professionnel"}},
}

// DetectCategory guesses a root category name from a filename. The first
// matching group wins, in declaration order.
func DetectCategory(filename string) string {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(base, kw) {
				return group.category
			}
		}
	}
	return FallbackCategory
}

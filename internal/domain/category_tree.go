package domain

import (
	"sort"
	"strings"
)

// NormalizeCategoryName trims and lowercases name. An empty result is a
// validation error.
func NormalizeCategoryName(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", NewValidationError("name", "must not be empty")
	}
	return n, nil
}

// BuildCategoryTree assembles flat storage rows into root categories, each
// carrying its direct children. Children whose parent does not resolve are
// dropped, and so are rows nested deeper than one level. Roots and children
// are ordered by name.
func BuildCategoryTree(nodes []CategoryNode) []Category {
	byID := make(map[string]CategoryNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	roots := make([]Category, 0)
	rootIndex := make(map[string]int)
	for _, n := range nodes {
		if n.ParentID != nil {
			continue
		}
		rootIndex[n.ID] = len(roots)
		roots = append(roots, Category{
			ID:            n.ID,
			Name:          n.Name,
			CreatedAt:     n.CreatedAt,
			Subcategories: []Subcategory{},
		})
	}

	for _, n := range nodes {
		if n.ParentID == nil {
			continue
		}
		idx, ok := rootIndex[*n.ParentID]
		if !ok {
			// orphan, or a grandchild of a root
			continue
		}
		roots[idx].Subcategories = append(roots[idx].Subcategories, Subcategory{
			ID:         n.ID,
			Name:       n.Name,
			CategoryID: *n.ParentID,
			CreatedAt:  n.CreatedAt,
		})
	}

	sort.SliceStable(roots, func(i, j int) bool { return roots[i].Name < roots[j].Name })
	for i := range roots {
		subs := roots[i].Subcategories
		sort.SliceStable(subs, func(a, b int) bool { return subs[a].Name < subs[b].Name })
	}
	return roots
}

// SubcategoryFromNode converts a child row into a Subcategory. ok is false
// for root rows.
func SubcategoryFromNode(n CategoryNode) (Subcategory, bool) {
	if n.ParentID == nil {
		return Subcategory{}, false
	}
	return Subcategory{
		ID:         n.ID,
		Name:       n.Name,
		CategoryID: *n.ParentID,
		CreatedAt:  n.CreatedAt,
	}, true
}

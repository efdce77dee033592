// internal/domain/filter/alias.go
package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// legacyPatch accepts the "selected*" list names older storefront clients send
type legacyPatch struct {
	Patch
	SelectedCollections   *[]string `json:"selectedCollections"`
	SelectedCategories    *[]string `json:"selectedCategories"`
	SelectedTypes         *[]string `json:"selectedTypes"`
	SelectedColors        *[]string `json:"selectedColors"`
	SelectedSubcategories *[]string `json:"selectedSubcategories"`
}

// DecodePatch decodes a JSON patch, folding the legacy "selected*" aliases onto the
// canonical fields. When both names are supplied the canonical one wins.
//
// Deprecated: new clients should send canonical field names and decode into Patch
// directly; this adapter exists for older storefront builds.
func DecodePatch(data []byte) (Patch, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Patch{}, nil
	}

	var legacy legacyPatch
	if err := json.Unmarshal(data, &legacy); err != nil {
		return Patch{}, fmt.Errorf("invalid filter patch: %w", err)
	}

	patch := legacy.Patch
	patch.Collections = preferCanonical(patch.Collections, legacy.SelectedCollections)
	patch.Categories = preferCanonical(patch.Categories, legacy.SelectedCategories)
	patch.Types = preferCanonical(patch.Types, legacy.SelectedTypes)
	patch.Colors = preferCanonical(patch.Colors, legacy.SelectedColors)
	patch.Subcategories = preferCanonical(patch.Subcategories, legacy.SelectedSubcategories)

	return patch, nil
}

func preferCanonical(canonical, alias *[]string) *[]string {
	if canonical != nil {
		return canonical
	}
	return alias
}

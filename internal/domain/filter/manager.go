// internal/domain/filter/manager.go
package filter

import (
	"net/url"
	"sort"
	"strings"
)

// URLStore is the navigable URL the filter state lives in
type URLStore interface {
	// Query returns the current raw query string
	Query() string
	// Push navigates to a new query string without reloading the page
	Push(query string)
}

// RefreshFunc is called with the new state after every mutation
type RefreshFunc func(State)

// Patch is a partial update. Nil fields are left untouched; supplied lists replace the
// current set wholesale.
type Patch struct {
	Search        *string     `json:"search,omitempty"`
	MinPrice      *string     `json:"minPrice,omitempty"`
	MaxPrice      *string     `json:"maxPrice,omitempty"`
	Collections   *[]string   `json:"collections,omitempty"`
	Categories    *[]string   `json:"categories,omitempty"`
	Types         *[]string   `json:"types,omitempty"`
	Colors        *[]string   `json:"colors,omitempty"`
	Subcategories *[]string   `json:"subcategories,omitempty"`
	SortBy        *SortOption `json:"sortBy,omitempty"`
	Featured      *bool       `json:"featured,omitempty"`
}

func (p Patch) applyTo(s State) State {
	if p.Search != nil {
		s.Search = *p.Search
	}
	if p.MinPrice != nil {
		s.MinPrice = *p.MinPrice
	}
	if p.MaxPrice != nil {
		s.MaxPrice = *p.MaxPrice
	}
	if p.Collections != nil {
		s.Collections = cloneList(*p.Collections)
	}
	if p.Categories != nil {
		s.Categories = cloneList(*p.Categories)
	}
	if p.Types != nil {
		s.Types = cloneList(*p.Types)
	}
	if p.Colors != nil {
		s.Colors = cloneList(*p.Colors)
	}
	if p.Subcategories != nil {
		s.Subcategories = cloneList(*p.Subcategories)
	}
	if p.SortBy != nil {
		s.SortBy = *p.SortBy
	}
	if p.Featured != nil {
		s.Featured = *p.Featured
	}
	return s
}

// Manager owns the authoritative filter state and keeps it in sync with the URL.
// It is driven by UI events and is not safe for concurrent use.
type Manager struct {
	store   URLStore
	refresh RefreshFunc
	state   State
}

// NewManager creates a manager seeded from the store's current query
func NewManager(store URLStore, refresh RefreshFunc) *Manager {
	return &Manager{
		store:   store,
		refresh: refresh,
		state:   Parse(store.Query()),
	}
}

// State returns a copy of the current state
func (m *Manager) State() State {
	return m.state.Clone()
}

// Sync re-reads the state from the URL, e.g. after back/forward navigation
func (m *Manager) Sync() State {
	m.state = Parse(m.store.Query())
	return m.State()
}

// ActiveCount counts the active filter dimensions of the current state
func (m *Manager) ActiveCount() int {
	return ActiveCount(m.state)
}

// Update merges patch into the current state, navigates and refreshes
func (m *Manager) Update(patch Patch) State {
	return m.commit(patch.applyTo(m.state.Clone()).normalized())
}

// Toggle adds value to the dimension's set if absent and removes it otherwise
func (m *Manager) Toggle(dim Dimension, value string) State {
	value = strings.TrimSpace(value)
	if value == "" || !isDimension(dim) {
		return m.State()
	}

	current := m.state.Values(dim)
	next := make([]string, 0, len(current)+1)
	found := false
	for _, v := range current {
		if v == value {
			found = true
			continue
		}
		next = append(next, v)
	}
	if !found {
		next = append(next, value)
	}

	patch := Patch{}
	switch dim {
	case DimensionCollections:
		patch.Collections = &next
	case DimensionCategories:
		patch.Categories = &next
	case DimensionTypes:
		patch.Types = &next
	case DimensionColors:
		patch.Colors = &next
	case DimensionSubcategories:
		patch.Subcategories = &next
	}
	return m.Update(patch)
}

// Clear resets every filter. Query keys the manager does not own stay in the URL.
func (m *Manager) Clear() State {
	return m.commit(State{})
}

func (m *Manager) commit(next State) State {
	m.state = next
	m.store.Push(MergeQuery(m.store.Query(), next))
	if m.refresh != nil {
		m.refresh(m.State())
	}
	return m.State()
}

// MergeQuery replaces the recognized filter keys of current with the serialized state,
// keeping every other key (pagination, tracking parameters) in sorted order after them.
func MergeQuery(current string, s State) string {
	values, _ := url.ParseQuery(strings.TrimPrefix(current, "?"))

	var extra []string
	keys := make([]string, 0, len(values))
	for key := range values {
		if !isRecognizedKey(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, v := range values[key] {
			extra = append(extra, url.QueryEscape(key)+"="+url.QueryEscape(v))
		}
	}

	parts := make([]string, 0, 2)
	if serialized := Serialize(s); serialized != "" {
		parts = append(parts, serialized)
	}
	if len(extra) > 0 {
		parts = append(parts, strings.Join(extra, "&"))
	}
	return strings.Join(parts, "&")
}

// ParseDimension maps a dimension name to a Dimension
func ParseDimension(name string) (Dimension, bool) {
	dim := Dimension(strings.TrimSpace(name))
	return dim, isDimension(dim)
}

func isDimension(dim Dimension) bool {
	for _, d := range Dimensions {
		if d == dim {
			return true
		}
	}
	return false
}

// MemoryURL is a URLStore holding the query in memory. Every pushed query is recorded.
type MemoryURL struct {
	query   string
	History []string
}

// NewMemoryURL creates a MemoryURL positioned at query
func NewMemoryURL(query string) *MemoryURL {
	return &MemoryURL{query: strings.TrimPrefix(query, "?")}
}

// Query returns the current query
func (u *MemoryURL) Query() string {
	return u.query
}

// Push records a navigation to query
func (u *MemoryURL) Push(query string) {
	u.query = query
	u.History = append(u.History, query)
}

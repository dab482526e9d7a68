// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Recommendation pairs a fetched paper with the category and reason the
// language model gave for it.
type Recommendation struct {
	Paper Paper `json:"paper" yaml:"paper"`

	// Category is always lower-case.
	Category string `json:"category" yaml:"category"`

	Reason string `json:"reason" yaml:"reason"`
}

// Recommendations groups recommendations by category. Categories keep the
// order in which they were first added, and entries keep insertion order
// within a category. The zero value is ready to use.
type Recommendations struct {
	order   []string
	entries map[string][]Recommendation
}

// Add appends r to its category, creating the category on first use.
func (rs *Recommendations) Add(r Recommendation) {
	if rs.entries == nil {
		rs.entries = make(map[string][]Recommendation)
	}
	if _, ok := rs.entries[r.Category]; !ok {
		rs.order = append(rs.order, r.Category)
	}
	rs.entries[r.Category] = append(rs.entries[r.Category], r)
}

// Categories returns the categories in insertion order.
func (rs *Recommendations) Categories() []string {
	out := make([]string, len(rs.order))
	copy(out, rs.order)
	return out
}

// Get returns the recommendations filed under category.
func (rs *Recommendations) Get(category string) []Recommendation {
	return rs.entries[category]
}

// Len returns the total number of recommendations across all categories.
func (rs *Recommendations) Len() int {
	n := 0
	for _, list := range rs.entries {
		n += len(list)
	}
	return n
}

// IsEmpty reports whether no recommendation has been added.
func (rs *Recommendations) IsEmpty() bool {
	return rs.Len() == 0
}

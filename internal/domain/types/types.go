// Package types contains common types used across the application
package types

import "slices"

// AllSites is the selector value meaning "do not filter by site".
const AllSites = "ALL"

// KnownSites lists the launch sites offered by the site selector, in display order.
var KnownSites = []string{
	"CCAFS LC-40",
	"VAFB SLC-4E",
	"KSC LC-39A",
	"CCAFS SLC-40",
}

// IsKnownSite reports whether site is the sentinel or one of KnownSites.
func IsKnownSite(site string) bool {
	return site == AllSites || slices.Contains(KnownSites, site)
}

// PayloadRange is an inclusive payload mass interval in kg.
// A range with Lower > Upper is empty.
type PayloadRange struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Contains reports whether v lies within the range, bounds included.
func (r PayloadRange) Contains(v float64) bool {
	return v >= r.Lower && v <= r.Upper
}

// Empty reports whether no value can fall within the range.
func (r PayloadRange) Empty() bool {
	return r.Lower > r.Upper
}

// FilterState is the current selection of a dashboard session.
type FilterState struct {
	Site    string       `json:"site"`
	Payload PayloadRange `json:"payload_range"`
}

// Package aggregate computes launch outcome counts over filtered records.
package aggregate

import "github.com/okian/launchdash/internal/domain/model"

// Outcome class values.
const (
	classSuccess = 1
	classFailure = 0
)

// Mode selects which summary a chart needs.
type Mode int

const (
	// PerSite groups records by launch site; used when every site is selected.
	PerSite Mode = iota
	// SuccessFailure counts successes against failures; used for a single site.
	SuccessFailure
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case PerSite:
		return "per_site"
	case SuccessFailure:
		return "success_failure"
	default:
		return "unknown"
	}
}

// OutcomeCounts is the success/failure split of a record set.
type OutcomeCounts struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Missing int `json:"missing"` // records without an outcome class
}

// SiteOutcome is the outcome summary of a single site.
type SiteOutcome struct {
	Site      string `json:"site"`
	Successes int    `json:"successes"`
	Total     int    `json:"total"` // records with a non-missing class
}

// Rate returns the share of successful launches, or 0 with no classified launches.
func (s SiteOutcome) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Total)
}

// SiteSummary holds per-site outcomes in order of first appearance.
type SiteSummary []SiteOutcome

// Lookup returns the outcome of site, if present.
func (s SiteSummary) Lookup(site string) (SiteOutcome, bool) {
	for _, o := range s {
		if o.Site == site {
			return o, true
		}
	}
	return SiteOutcome{}, false
}

// Summary is the result of Aggregate. Exactly one of Sites or Counts is
// meaningful, depending on Mode.
type Summary struct {
	Mode   Mode
	Sites  SiteSummary
	Counts OutcomeCounts
}

// Aggregate summarizes records according to mode.
func Aggregate(records []model.LaunchRecord, mode Mode) Summary {
	if mode == PerSite {
		return Summary{Mode: mode, Sites: BySite(records)}
	}
	return Summary{Mode: SuccessFailure, Counts: Count(records)}
}

// Count splits records into successes, failures and missing classes.
func Count(records []model.LaunchRecord) OutcomeCounts {
	var c OutcomeCounts
	for _, r := range records {
		switch {
		case !r.Class.Valid:
			c.Missing++
		case r.Class.Value == classSuccess:
			c.Success++
		case r.Class.Value == classFailure:
			c.Failed++
		}
	}
	return c
}

// BySite groups records by launch site.
func BySite(records []model.LaunchRecord) SiteSummary {
	index := make(map[string]int)
	out := make(SiteSummary, 0)
	for _, r := range records {
		i, ok := index[r.Site]
		if !ok {
			i = len(out)
			index[r.Site] = i
			out = append(out, SiteOutcome{Site: r.Site})
		}
		if !r.Class.Valid {
			continue
		}
		out[i].Total++
		if r.Class.Equals(classSuccess) {
			out[i].Successes++
		}
	}
	return out
}

// Package filter selects launch records matching a site and payload range.
package filter

import (
	"github.com/okian/launchdash/internal/domain/model"
	"github.com/okian/launchdash/internal/domain/types"
)

// Criteria describes which records to keep. A nil Payload means the payload
// mass is not constrained.
type Criteria struct {
	Site    string
	Payload *types.PayloadRange
}

// Match reports whether rec satisfies c.
func (c Criteria) Match(rec model.LaunchRecord) bool {
	if c.Site != types.AllSites && rec.Site != c.Site {
		return false
	}
	if c.Payload != nil {
		// Missing payloads never fall within a range.
		if !rec.PayloadMass.Valid || !c.Payload.Contains(rec.PayloadMass.Value) {
			return false
		}
	}
	return true
}

// Apply returns the records of ds matching c, in dataset order.
// The result is never nil.
func Apply(ds *model.Dataset, c Criteria) []model.LaunchRecord {
	out := make([]model.LaunchRecord, 0)
	if c.Payload != nil && c.Payload.Empty() {
		return out
	}
	for i := 0; i < ds.Len(); i++ {
		rec := ds.At(i)
		if c.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// ForPie selects the records feeding the outcome pie chart. The payload
// range is not applied on this path.
func ForPie(ds *model.Dataset, site string) []model.LaunchRecord {
	return Apply(ds, Criteria{Site: site})
}

// ForScatter selects the records feeding the payload scatter chart: the
// payload range always applies, the site only when it is not AllSites.
func ForScatter(ds *model.Dataset, site string, payload types.PayloadRange) []model.LaunchRecord {
	return Apply(ds, Criteria{Site: site, Payload: &payload})
}

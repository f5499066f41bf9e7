// Package model contains domain models passed between layers.
package model

import "math"

// NullFloat is a float64 that may be missing. Valid is false when the
// source cell was blank or not a number.
type NullFloat struct {
	Value float64
	Valid bool
}

// Float returns a valid NullFloat holding v.
func Float(v float64) NullFloat { return NullFloat{Value: v, Valid: true} }

// Missing returns the missing marker.
func Missing() NullFloat { return NullFloat{} }

// Equals reports whether n holds exactly v. Missing never equals anything.
func (n NullFloat) Equals(v float64) bool {
	return n.Valid && n.Value == v
}

// LaunchRecord is one row of the launch dataset.
type LaunchRecord struct {
	Site            string    // launch site name, e.g. "KSC LC-39A"
	PayloadMass     NullFloat // payload mass in kg
	Class           NullFloat // 1 = success, 0 = failure
	BoosterCategory string    // booster version category, chart color dimension
}

// Dataset is an ordered, read-only collection of launch records.
type Dataset struct {
	records []LaunchRecord
}

// NewDataset copies records into a new Dataset.
func NewDataset(records []LaunchRecord) *Dataset {
	cp := make([]LaunchRecord, len(records))
	copy(cp, records)
	return &Dataset{records: cp}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the i-th record.
func (d *Dataset) At(i int) LaunchRecord {
	return d.records[i]
}

// Records returns a copy of all records in load order.
func (d *Dataset) Records() []LaunchRecord {
	if d == nil {
		return nil
	}
	cp := make([]LaunchRecord, len(d.records))
	copy(cp, d.records)
	return cp
}

// PayloadBounds returns the smallest and largest non-missing payload mass.
// ok is false when no record carries a payload.
func (d *Dataset) PayloadBounds() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := 0; i < d.Len(); i++ {
		p := d.records[i].PayloadMass
		if !p.Valid {
			continue
		}
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// MissingCounts returns how many records lack a payload mass and an outcome class.
func (d *Dataset) MissingCounts() (payload, class int) {
	for i := 0; i < d.Len(); i++ {
		if !d.records[i].PayloadMass.Valid {
			payload++
		}
		if !d.records[i].Class.Valid {
			class++
		}
	}
	return payload, class
}

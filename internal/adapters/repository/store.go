// Package repository loads the launch dataset from its backing file.
package repository

import (
	"context"

	"github.com/okian/launchdash/internal/domain/model"
)

// Dataset column headers.
const (
	ColumnSite            = "Launch Site"
	ColumnPayloadMass     = "Payload Mass (kg)"
	ColumnClass           = "class"
	ColumnBoosterCategory = "Booster Version Category"
)

// Source provides the launch dataset. It is read once at startup.
type Source interface {
	// Load reads the full dataset. Implementations coerce numeric columns,
	// storing non-numeric cells as missing rather than failing.
	Load(ctx context.Context) (*model.Dataset, error)
}

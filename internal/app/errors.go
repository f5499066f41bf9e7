package service

import "errors"

// Sentinel errors for the dashboard service.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNoDataset  = errors.New("no dataset source configured")
)

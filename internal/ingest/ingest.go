// Package ingest imports book metadata from Open Library into the catalog.
package ingest

import (
	"errors"
	"time"
)

// ErrUpstream wraps failures talking to Open Library.
var ErrUpstream = errors.New("open library request failed")

// MaxBatch bounds how many ISBNs one import may request.
const MaxBatch = 50

// Run summarises one import.
type Run struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Requested  int       `json:"requested"`
	Fetched    int       `json:"fetched"`
	Imported   []int64   `json:"imported"`
	Skipped    []string  `json:"skipped"`
	Failures   []Failure `json:"failures"`
}

// Failure records why one ISBN was not imported.
type Failure struct {
	ISBN   string `json:"isbn"`
	Reason string `json:"reason"`
}

// Input is the POST /books/import body.
type Input struct {
	ISBNs []string `json:"isbns" validate:"required,min=1,max=50,dive,isbn13"`
}

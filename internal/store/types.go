// Package store persists simulation runs so their pedigrees and family
// history summaries can be listed, exported and re-read later.
package store

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/brca-pedigree-sim/internal/domain"
	"github.com/brca-pedigree-sim/internal/service"
)

// Run is one stored simulation run.
type Run struct {
	ID           uuid.UUID                     `json:"id"`
	CreatedAt    time.Time                     `json:"created_at"`
	Seed         int64                         `json:"seed"`
	CarriersOnly bool                          `json:"carriers_only"`
	Stats        service.RunStats              `json:"stats"`
	Pedigrees    []*domain.Pedigree            `json:"pedigrees"`
	Summaries    []domain.FamilyHistorySummary `json:"summaries"`
}

// NewRun wraps a simulation result in a Run with a fresh id.
func NewRun(result *service.RunResult, carriersOnly bool) *Run {
	return &Run{
		ID:           uuid.New(),
		CreatedAt:    time.Now().UTC(),
		Seed:         result.Seed,
		CarriersOnly: carriersOnly,
		Stats:        result.Stats,
		Pedigrees:    result.Pedigrees,
		Summaries:    result.Summaries,
	}
}

// Store defines the interface for run storage operations.
type Store interface {
	// Save stores a run. A run with an existing id replaces the stored one.
	// A zero id is replaced by a new random id.
	Save(ctx context.Context, run *Run) error

	// Get retrieves a run by id. It returns domain.ErrNotFound when the run
	// does not exist.
	Get(ctx context.Context, id uuid.UUID) (*Run, error)

	// List returns runs, newest first, with pagination.
	List(ctx context.Context, limit, offset int) ([]*Run, error)

	// Count returns the number of stored runs.
	Count(ctx context.Context) (int64, error)

	// Delete removes a run by id.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExportJSON writes every stored run to writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// ImportJSON reads runs written by ExportJSON. Runs whose id is already
	// stored are skipped.
	ImportJSON(ctx context.Context, reader io.Reader) (imported int, skipped int, err error)

	// Close releases the store's resources.
	Close() error
}

// RunExport represents the JSON export format.
type RunExport struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Runs       []*Run    `json:"runs"`
}

// ExportVersion is written into every RunExport.
const ExportVersion = "1.0"

// maxExportLimit is the maximum number of runs exported at once.
const maxExportLimit = 1000000

// prepare fills in the id and creation time of a run about to be saved.
func prepare(run *Run) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
}

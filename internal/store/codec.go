package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/brca-pedigree-sim/internal/domain"
	"github.com/brca-pedigree-sim/internal/service"
)

// payload holds the JSON columns of a stored run.
type payload struct {
	stats     []byte
	pedigrees []byte
	summaries []byte
}

func encodeRun(run *Run) (payload, error) {
	var p payload
	var err error
	if p.stats, err = json.Marshal(run.Stats); err != nil {
		return p, fmt.Errorf("failed to encode stats: %w", err)
	}
	if p.pedigrees, err = json.Marshal(run.Pedigrees); err != nil {
		return p, fmt.Errorf("failed to encode pedigrees: %w", err)
	}
	if p.summaries, err = json.Marshal(run.Summaries); err != nil {
		return p, fmt.Errorf("failed to encode summaries: %w", err)
	}
	return p, nil
}

func decodeRun(run *Run, p payload) error {
	var stats service.RunStats
	if err := json.Unmarshal(p.stats, &stats); err != nil {
		return fmt.Errorf("failed to decode stats: %w", err)
	}
	var pedigrees []*domain.Pedigree
	if err := json.Unmarshal(p.pedigrees, &pedigrees); err != nil {
		return fmt.Errorf("failed to decode pedigrees: %w", err)
	}
	var summaries []domain.FamilyHistorySummary
	if err := json.Unmarshal(p.summaries, &summaries); err != nil {
		return fmt.Errorf("failed to decode summaries: %w", err)
	}
	run.Stats = stats
	run.Pedigrees = pedigrees
	run.Summaries = summaries
	return nil
}

// exportRuns writes every run of s as a RunExport.
func exportRuns(ctx context.Context, s Store, writer io.Writer) error {
	all, err := s.List(ctx, maxExportLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	export := &RunExport{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Count:      len(all),
		Runs:       all,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// importRuns saves every run of a RunExport that s does not hold yet.
func importRuns(ctx context.Context, s Store, reader io.Reader) (imported int, skipped int, err error) {
	var export RunExport
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return 0, 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	for _, run := range export.Runs {
		_, err := s.Get(ctx, run.ID)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return imported, skipped, fmt.Errorf("failed to check existing: %w", err)
		}

		if err := s.Save(ctx, run); err != nil {
			return imported, skipped, fmt.Errorf("failed to save: %w", err)
		}
		imported++
	}

	return imported, skipped, nil
}

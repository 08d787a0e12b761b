package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brca-pedigree-sim/internal/blob"
	"github.com/brca-pedigree-sim/internal/database"
	"github.com/brca-pedigree-sim/internal/domain"
	"github.com/brca-pedigree-sim/internal/export"
	"github.com/brca-pedigree-sim/internal/service"
	"github.com/brca-pedigree-sim/internal/store"
)

func (c *CLI) simulate(ctx context.Context, args []string, carriersOnly bool) error {
	fs := c.flagSet("run")
	if err := fs.Parse(args); err != nil {
		return err
	}
	env, err := loadEnvironment(fs)
	if err != nil {
		return err
	}
	defer env.Close()
	cfg, logger := env.cfg, env.logger
	carriersOnly = carriersOnly || cfg.Simulation.CarriersOnly

	sim, err := service.NewSimulator(service.SimulatorConfig{
		Seed:        cfg.Simulation.Seed,
		Workers:     cfg.Simulation.Workers,
		MaxAttempts: cfg.Simulation.MaxAttempts,
		Summarize:   cfg.Simulation.Summarize,
	}, nil, logger)
	if err != nil {
		return err
	}

	var result *service.RunResult
	if carriersOnly {
		result, err = sim.RunCarriers(ctx, cfg.Simulation.Trials)
	} else {
		result, err = sim.Run(ctx, cfg.Simulation.Trials)
	}
	exhausted := errors.Is(err, service.ErrAttemptsExhausted)
	if err != nil && !exhausted {
		return err
	}

	sink, err := blob.Open(ctx, cfg.Output, logger)
	if err != nil {
		return err
	}
	if err := writeOutputs(ctx, sink, cfg.Output, result); err != nil {
		return err
	}

	runID, err := persist(ctx, cfg, result, carriersOnly, logger)
	if err != nil {
		return err
	}

	c.printStats(result, runID)
	if exhausted {
		return fmt.Errorf("kept %d of %d requested families: %w", result.Stats.Kept, result.Stats.Requested, service.ErrAttemptsExhausted)
	}
	return nil
}

// writeOutputs writes the pedigree file, the family history file when there
// are summaries, and the workbook when enabled.
func writeOutputs(ctx context.Context, sink blob.Sink, out domain.OutputConfig, result *service.RunResult) error {
	var buf bytes.Buffer
	if err := export.WritePedigrees(&buf, result.Pedigrees); err != nil {
		return err
	}
	if err := sink.Put(ctx, out.PedigreeFile, &buf, export.TextContentType); err != nil {
		return fmt.Errorf("writing pedigree file: %w", err)
	}

	if len(result.Summaries) > 0 {
		buf.Reset()
		if err := export.WriteFamilyHistories(&buf, result.Summaries); err != nil {
			return err
		}
		if err := sink.Put(ctx, out.HistoryFile, &buf, export.TextContentType); err != nil {
			return fmt.Errorf("writing family history file: %w", err)
		}
	}

	if out.XLSX {
		buf.Reset()
		if err := export.WriteWorkbook(&buf, result.Pedigrees, result.Summaries); err != nil {
			return err
		}
		if err := sink.Put(ctx, out.WorkbookFile, &buf, export.XLSXContentType); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
	}
	return nil
}

// persist saves the run to the configured store and, when enabled, loads it
// into the normalized database. It returns the run id, uuid.Nil when nothing
// was stored.
func persist(ctx context.Context, cfg *domain.Config, result *service.RunResult, carriersOnly bool, logger *logrus.Logger) (uuid.UUID, error) {
	run := store.NewRun(result, carriersOnly)
	stored := false

	runStore, err := store.Open(cfg.Store, logger)
	switch {
	case errors.Is(err, store.ErrDisabled):
	case err != nil:
		return uuid.Nil, err
	default:
		defer runStore.Close()
		if err := runStore.Save(ctx, run); err != nil {
			return uuid.Nil, fmt.Errorf("saving run: %w", err)
		}
		stored = true
	}

	if cfg.Database.Enabled {
		if err := loadDatabase(ctx, cfg.Database, run, logger); err != nil {
			return uuid.Nil, err
		}
		stored = true
	}

	if !stored {
		return uuid.Nil, nil
	}
	return run.ID, nil
}

func loadDatabase(ctx context.Context, cfg domain.DatabaseConfig, run *store.Run, logger *logrus.Logger) error {
	dbConfig := database.ConfigFromDomain(cfg)

	runner, err := database.NewMigrationRunner(dbConfig.URL(), cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	migrateErr := runner.Up(ctx)
	if err := runner.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close migration runner")
	}
	if migrateErr != nil {
		return migrateErr
	}

	db, err := database.NewConnection(ctx, dbConfig, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := database.NewPedigreeRepository(db.Pool, logger)
	_, err = repo.InsertRun(ctx, run.ID, run.Pedigrees, run.Summaries)
	return err
}

func (c *CLI) printStats(result *service.RunResult, runID uuid.UUID) {
	stats := result.Stats
	fmt.Fprintf(c.Out, "Seed:              %d\n", result.Seed)
	fmt.Fprintf(c.Out, "Families:          %d of %d requested\n", stats.Kept, stats.Requested)
	fmt.Fprintf(c.Out, "Trials drawn:      %d (%d dropped)\n", stats.Attempts, stats.DroppedTrials)
	fmt.Fprintf(c.Out, "Mutated families:  %d\n", stats.MutatedFamilies)
	fmt.Fprintf(c.Out, "Individuals:       %d (%d carriers)\n", stats.Individuals, stats.Carriers)
	fmt.Fprintf(c.Out, "Breast cancers:    %d\n", stats.BreastCases)
	fmt.Fprintf(c.Out, "Ovarian cancers:   %d\n", stats.OvarianCases)
	if runID != uuid.Nil {
		fmt.Fprintf(c.Out, "Run ID:            %s\n", runID)
	}
}

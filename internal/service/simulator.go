package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/brca-pedigree-sim/internal/domain"
	"github.com/brca-pedigree-sim/internal/identity"
	"github.com/brca-pedigree-sim/internal/incidence"
	"github.com/brca-pedigree-sim/internal/pedigree"
	"github.com/brca-pedigree-sim/internal/random"
)

// ErrAttemptsExhausted is returned by RunCarriers when the attempt cap is hit
// before enough carrier families were found.
var ErrAttemptsExhausted = errors.New("maximum simulation attempts reached")

const trialsPerWorker = 16

// SimulatorConfig controls a simulation run.
type SimulatorConfig struct {
	Seed        int64
	Workers     int
	MaxAttempts int
	Summarize   bool
	CurrentYear int
}

// RunStats describes a finished run.
type RunStats struct {
	Requested       int           `json:"requested"`
	Attempts        int           `json:"attempts"`
	Kept            int           `json:"kept"`
	DroppedTrials   int           `json:"dropped_trials"`
	MutatedFamilies int           `json:"mutated_families"`
	Individuals     int           `json:"individuals"`
	Carriers        int           `json:"carriers"`
	BreastCases     int           `json:"breast_cases"`
	OvarianCases    int           `json:"ovarian_cases"`
	Duration        time.Duration `json:"duration"`
}

// RunResult holds the pedigrees of a run in trial order. Summaries is empty
// when summarizing is disabled.
type RunResult struct {
	Seed      int64
	Pedigrees []*domain.Pedigree
	Summaries []domain.FamilyHistorySummary
	Stats     RunStats
}

// TrialResult is the outcome of a single trial in its scratch id space.
type TrialResult struct {
	Pedigree        *domain.Pedigree
	MutatedFounders int
	Transmitted     int
}

// Simulator drives trials and merges them into one id space. Run and
// RunCarriers must not be called concurrently; each spreads its own trials
// over the configured number of workers.
type Simulator struct {
	cfg    SimulatorConfig
	model  *incidence.Model
	alloc  *identity.Allocator
	logger *logrus.Logger
}

// NewSimulator creates a simulator. A zero seed is replaced by a time-based
// one, see Seed.
func NewSimulator(cfg SimulatorConfig, model *incidence.Model, logger *logrus.Logger) (*Simulator, error) {
	if model == nil {
		model = incidence.DefaultModel()
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid incidence model: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.CurrentYear == 0 {
		cfg.CurrentYear = time.Now().Year()
	}
	if cfg.Seed == 0 {
		cfg.Seed = random.TimeSeed()
	}

	return &Simulator{
		cfg:    cfg,
		model:  model,
		alloc:  identity.NewAllocator(),
		logger: logger,
	}, nil
}

// Seed returns the seed in use, which reproduces the run.
func (s *Simulator) Seed() int64 {
	return s.cfg.Seed
}

// Allocator returns the shared id space of merged pedigrees.
func (s *Simulator) Allocator() *identity.Allocator {
	return s.alloc
}

// RunTrial executes one trial: build the pedigree, assign founder cancers,
// test the female founders, transmit each founder mutation to the founder's
// children, then assign cancers to the remaining females.
func (s *Simulator) RunTrial(rng random.Source, alloc *identity.Allocator) (*TrialResult, error) {
	builder := pedigree.NewBuilder(alloc, rng, s.logger, pedigree.WithCurrentYear(s.cfg.CurrentYear))
	cancer := NewCancerEngine(s.model, rng, s.logger)
	mutation := NewMutationEngine(s.model, rng, s.logger)

	ped, err := builder.BuildThreeGeneration()
	if err != nil {
		return nil, err
	}

	cancer.AssignFounderCancer(ped)
	mutation.AssignFounderOutcomes(ped)

	result := &TrialResult{Pedigree: ped}
	for _, founder := range ped.MutatedFounders() {
		n, err := mutation.TransmitFounderMutation(founder, ped)
		if err != nil {
			return nil, err
		}
		result.MutatedFounders++
		result.Transmitted += n
	}

	cancer.AssignRemainingCancer(ped)

	if err := ped.Validate(); err != nil {
		return nil, fmt.Errorf("family %d: %w", ped.FamilyID, err)
	}
	return result, nil
}

// Run simulates the requested number of trials. Dropped trials are counted
// in the stats and not retried, so fewer families than requested may come
// back.
func (s *Simulator) Run(ctx context.Context, trials int) (*RunResult, error) {
	return s.run(ctx, trials, false)
}

// RunCarriers keeps simulating until the requested number of families with at
// least one mutated founder is reached. It stops after MaxAttempts trials and
// then returns the families found so far together with ErrAttemptsExhausted.
func (s *Simulator) RunCarriers(ctx context.Context, wanted int) (*RunResult, error) {
	return s.run(ctx, wanted, true)
}

func (s *Simulator) run(ctx context.Context, wanted int, carriersOnly bool) (*RunResult, error) {
	if wanted < 0 {
		return nil, domain.NewValidationError("trials", "must not be negative", wanted)
	}

	start := time.Now()
	result := &RunResult{Seed: s.cfg.Seed, Stats: RunStats{Requested: wanted}}

	maxAttempts := wanted
	if carriersOnly {
		maxAttempts = s.cfg.MaxAttempts
		if maxAttempts <= 0 {
			maxAttempts = wanted
		}
	}

	s.logger.WithFields(logrus.Fields{
		"seed":          s.cfg.Seed,
		"requested":     wanted,
		"carriers_only": carriersOnly,
		"workers":       s.cfg.Workers,
	}).Info("Starting simulation")

	attempt := 0
	for result.Stats.Kept < wanted && attempt < maxAttempts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch := s.cfg.Workers * trialsPerWorker
		if remaining := maxAttempts - attempt; batch > remaining {
			batch = remaining
		}
		if !carriersOnly {
			if missing := wanted - result.Stats.Kept; batch > missing {
				batch = missing
			}
		}

		trials, err := s.runBatch(ctx, attempt, batch)
		if err != nil {
			return nil, err
		}

		for i, trial := range trials {
			if result.Stats.Kept >= wanted {
				break
			}
			result.Stats.Attempts = attempt + i + 1
			if trial == nil {
				result.Stats.DroppedTrials++
				continue
			}
			if carriersOnly && trial.MutatedFounders == 0 {
				continue
			}
			if err := s.merge(result, trial); err != nil {
				return nil, err
			}
		}
		attempt += batch
	}

	result.Stats.Duration = time.Since(start)

	s.logger.WithFields(logrus.Fields{
		"seed":             s.cfg.Seed,
		"kept":             result.Stats.Kept,
		"attempts":         result.Stats.Attempts,
		"dropped":          result.Stats.DroppedTrials,
		"mutated_families": result.Stats.MutatedFamilies,
		"carriers":         result.Stats.Carriers,
		"duration":         result.Stats.Duration,
	}).Info("Simulation completed")

	if carriersOnly && result.Stats.Kept < wanted {
		return result, fmt.Errorf("%w: found %d of %d families in %d attempts",
			ErrAttemptsExhausted, result.Stats.Kept, wanted, result.Stats.Attempts)
	}
	return result, nil
}

// runBatch runs attempts [first, first+n) in parallel. Each attempt has its
// own random stream and scratch allocator, so the outcome does not depend on
// the number of workers. Dropped trials are nil in the returned slice.
func (s *Simulator) runBatch(ctx context.Context, first, n int) ([]*TrialResult, error) {
	results := make([]*TrialResult, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			attempt := first + i
			trial, err := s.RunTrial(random.NewSeeded(s.cfg.Seed, uint64(attempt)), identity.NewAllocator())
			if err != nil {
				var validationErr *domain.ValidationError
				if domain.IsProtocolViolation(err) || errors.As(err, &validationErr) {
					s.logger.WithError(err).WithField("attempt", attempt).Warn("Dropping failed trial")
					return nil
				}
				return fmt.Errorf("trial %d: %w", attempt, err)
			}
			results[i] = trial
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// merge moves a trial pedigree into the shared id space and records it.
func (s *Simulator) merge(result *RunResult, trial *TrialResult) error {
	ped := trial.Pedigree
	familyID := s.alloc.NextFamily()
	offset := s.alloc.Reserve(ped.Len())
	ped.Renumber(familyID, offset)

	if s.cfg.Summarize {
		summary, err := SummarizeFamilyHistory(ped)
		if err != nil {
			return fmt.Errorf("summarizing family %d: %w", familyID, err)
		}
		result.Summaries = append(result.Summaries, summary)
	}
	result.Pedigrees = append(result.Pedigrees, ped)

	stats := &result.Stats
	stats.Kept++
	stats.Individuals += ped.Len()
	if trial.MutatedFounders > 0 {
		stats.MutatedFamilies++
	}
	for _, m := range ped.Members {
		if m.MutationStatus.IsCarrier() {
			stats.Carriers++
		}
		if m.HasBreastCancer() {
			stats.BreastCases++
		}
		if m.HasOvarianCancer() {
			stats.OvarianCases++
		}
	}
	return nil
}

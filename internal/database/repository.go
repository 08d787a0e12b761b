package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/brca-pedigree-sim/internal/domain"
)

var individualColumns = []string{
	"run_id", "family_id", "individual_id", "is_proband", "father_id", "mother_id",
	"sex", "is_twin", "is_dead", "age", "birth_year",
	"breast_cancer_age_1", "breast_cancer_age_2", "ovarian_cancer_age",
	"genetic_test", "mutation_status",
}

var historyColumns = []string{
	"run_id", "family_id", "proband_id", "history_known",
	"first_degree_breast_under_50", "first_degree_breast_50_plus", "first_degree_ovarian",
	"maternal_second_degree_breast", "paternal_second_degree_breast",
	"maternal_second_degree_ovarian", "paternal_second_degree_ovarian",
	"male_breast", "pancreatic",
}

// PedigreeRepository stores simulated pedigrees as one row per individual so
// runs can be queried with plain SQL.
type PedigreeRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewPedigreeRepository creates a new pedigree repository
func NewPedigreeRepository(db *pgxpool.Pool, logger *logrus.Logger) *PedigreeRepository {
	return &PedigreeRepository{
		db:  db,
		log: logger,
	}
}

// InsertRun bulk-loads the pedigrees and summaries of one run inside a single
// transaction. It returns the number of individual rows written.
func (r *PedigreeRepository) InsertRun(ctx context.Context, runID uuid.UUID, pedigrees []*domain.Pedigree, summaries []domain.FamilyHistorySummary) (int64, error) {
	individuals := individualRows(runID, pedigrees)
	histories := historyRows(runID, summaries)

	var copied int64
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO pedigree_runs (id, families, individuals) VALUES ($1, $2, $3)`,
			runID, len(pedigrees), len(individuals))
		if err != nil {
			return fmt.Errorf("inserting run: %w", err)
		}

		copied, err = tx.CopyFrom(ctx, pgx.Identifier{"individuals"}, individualColumns, pgx.CopyFromRows(individuals))
		if err != nil {
			return fmt.Errorf("copying individuals: %w", err)
		}

		if len(histories) > 0 {
			if _, err := tx.CopyFrom(ctx, pgx.Identifier{"family_histories"}, historyColumns, pgx.CopyFromRows(histories)); err != nil {
				return fmt.Errorf("copying family histories: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"run_id": runID,
			"error":  err,
		}).Error("Failed to insert pedigree run")
		return 0, err
	}

	r.log.WithFields(logrus.Fields{
		"run_id":      runID,
		"families":    len(pedigrees),
		"individuals": copied,
	}).Info("Pedigree run stored")

	return copied, nil
}

// CountCarriers returns the number of mutation carriers recorded for a run.
func (r *PedigreeRepository) CountCarriers(ctx context.Context, runID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM individuals WHERE run_id = $1 AND mutation_status > 0`,
		runID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting carriers: %w", err)
	}
	return count, nil
}

// FamilyHistories returns the summaries of a run ordered by family id.
func (r *PedigreeRepository) FamilyHistories(ctx context.Context, runID uuid.UUID) ([]domain.FamilyHistorySummary, error) {
	query := `
		SELECT family_id, proband_id, history_known,
			   first_degree_breast_under_50, first_degree_breast_50_plus, first_degree_ovarian,
			   maternal_second_degree_breast, paternal_second_degree_breast,
			   maternal_second_degree_ovarian, paternal_second_degree_ovarian,
			   male_breast, pancreatic
		FROM family_histories
		WHERE run_id = $1
		ORDER BY family_id`

	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("querying family histories: %w", err)
	}
	defer rows.Close()

	var summaries []domain.FamilyHistorySummary
	for rows.Next() {
		var s domain.FamilyHistorySummary
		if err := rows.Scan(
			&s.FamilyID, &s.ProbandID, &s.HistoryKnown,
			&s.FirstDegreeBreastUnder50, &s.FirstDegreeBreast50Plus, &s.FirstDegreeOvarian,
			&s.MaternalSecondDegreeBreast, &s.PaternalSecondDegreeBreast,
			&s.MaternalSecondDegreeOvarian, &s.PaternalSecondDegreeOvarian,
			&s.MaleBreast, &s.Pancreatic,
		); err != nil {
			return nil, fmt.Errorf("scanning family history: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating family histories: %w", err)
	}
	return summaries, nil
}

// DeleteRun removes a run and, through the foreign keys, all its rows.
func (r *PedigreeRepository) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM pedigree_runs WHERE id = $1`, runID)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("run %s: %w", runID, domain.ErrNotFound)
	}
	return nil
}

func individualRows(runID uuid.UUID, pedigrees []*domain.Pedigree) [][]any {
	var rows [][]any
	for _, ped := range pedigrees {
		for _, ind := range ped.Members {
			rows = append(rows, []any{
				runID, ind.FamilyID, ind.ID, ind.IsProband, ind.FatherID, ind.MotherID,
				string(ind.Sex), ind.IsTwin, ind.IsDead, ind.Age, ind.BirthYear,
				ind.BreastCancerAge1, ind.BreastCancerAge2, ind.OvarianCancerAge,
				string(ind.GeneticTest), int16(ind.MutationStatus),
			})
		}
	}
	return rows
}

func historyRows(runID uuid.UUID, summaries []domain.FamilyHistorySummary) [][]any {
	rows := make([][]any, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []any{
			runID, s.FamilyID, s.ProbandID, int16(s.HistoryKnown),
			s.FirstDegreeBreastUnder50, s.FirstDegreeBreast50Plus, s.FirstDegreeOvarian,
			s.MaternalSecondDegreeBreast, s.PaternalSecondDegreeBreast,
			s.MaternalSecondDegreeOvarian, s.PaternalSecondDegreeOvarian,
			s.MaleBreast, s.Pancreatic,
		})
	}
	return rows
}

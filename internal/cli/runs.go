package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/brca-pedigree-sim/internal/export"
	"github.com/brca-pedigree-sim/internal/store"
)

const defaultListLimit = 20

// runs manages the run store: list, show, delete, export and import.
func (c *CLI) runs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("runs needs a subcommand: list, show, delete, export or import")
	}
	action := args[0]

	fs := c.flagSet("runs " + action)
	limit := fs.Int("limit", defaultListLimit, "number of runs to list")
	offset := fs.Int("offset", 0, "number of runs to skip")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	env, err := loadEnvironment(fs)
	if err != nil {
		return err
	}
	defer env.Close()

	runStore, err := store.Open(env.cfg.Store, env.logger)
	if errors.Is(err, store.ErrDisabled) {
		return fmt.Errorf("%w: set store.driver to sqlite or postgres", err)
	}
	if err != nil {
		return err
	}
	defer runStore.Close()

	switch action {
	case "list":
		return c.listRuns(ctx, runStore, *limit, *offset)
	case "show":
		id, err := runIDArg(fs.Args())
		if err != nil {
			return err
		}
		run, err := runStore.Get(ctx, id)
		if err != nil {
			return err
		}
		return export.WritePedigrees(c.Out, run.Pedigrees)
	case "delete":
		id, err := runIDArg(fs.Args())
		if err != nil {
			return err
		}
		if err := runStore.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(c.Out, "Deleted run %s\n", id)
		return nil
	case "export":
		if fs.NArg() == 0 {
			return runStore.ExportJSON(ctx, c.Out)
		}
		f, err := os.Create(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		if err := runStore.ExportJSON(ctx, f); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	case "import":
		if fs.NArg() != 1 {
			return fmt.Errorf("runs import takes exactly one file")
		}
		input, closeInput, err := openInput(fs.Arg(0))
		if err != nil {
			return err
		}
		defer closeInput()
		imported, skipped, err := runStore.ImportJSON(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Out, "Imported %d runs, skipped %d already stored\n", imported, skipped)
		return nil
	default:
		return fmt.Errorf("%w: runs %s", ErrUnknownCommand, action)
	}
}

func (c *CLI) listRuns(ctx context.Context, runStore store.Store, limit, offset int) error {
	runs, err := runStore.List(ctx, limit, offset)
	if err != nil {
		return err
	}
	total, err := runStore.Count(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSEED\tCARRIERS ONLY\tFAMILIES\tINDIVIDUALS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%d\t%d\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Seed, run.CarriersOnly,
			len(run.Pedigrees), run.Stats.Individuals)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "%d of %d runs\n", len(runs), total)
	return nil
}

func runIDArg(args []string) (uuid.UUID, error) {
	if len(args) != 1 {
		return uuid.Nil, fmt.Errorf("expected exactly one run id")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid run id %q: %w", args[0], err)
	}
	return id, nil
}

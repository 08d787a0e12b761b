package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/brca-pedigree-sim/internal/blob"
	"github.com/brca-pedigree-sim/internal/domain"
	"github.com/brca-pedigree-sim/internal/export"
	"github.com/brca-pedigree-sim/internal/service"
)

// summarize reads a BOADICEA pedigree file ("-" for stdin) and writes the
// family history file for it.
func (c *CLI) summarize(ctx context.Context, args []string) error {
	fs := c.flagSet("summarize")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("summarize takes exactly one pedigree file, got %d arguments", fs.NArg())
	}
	env, err := loadEnvironment(fs)
	if err != nil {
		return err
	}
	defer env.Close()

	input, closeInput, err := openInput(fs.Arg(0))
	if err != nil {
		return err
	}
	defer closeInput()

	pedigrees, err := export.ReadPedigrees(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", fs.Arg(0), err)
	}
	summaries, err := summarizeAll(pedigrees, env.logger)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteFamilyHistories(&buf, summaries); err != nil {
		return err
	}
	sink, err := blob.Open(ctx, env.cfg.Output, env.logger)
	if err != nil {
		return err
	}
	if err := sink.Put(ctx, env.cfg.Output.HistoryFile, &buf, export.TextContentType); err != nil {
		return fmt.Errorf("writing family history file: %w", err)
	}

	fmt.Fprintf(c.Out, "Summarized %d families into %s\n", len(summaries), env.cfg.Output.HistoryFile)
	return nil
}

func summarizeAll(pedigrees []*domain.Pedigree, logger *logrus.Logger) ([]domain.FamilyHistorySummary, error) {
	summaries := make([]domain.FamilyHistorySummary, 0, len(pedigrees))
	for _, ped := range pedigrees {
		summary, err := service.SummarizeFamilyHistory(ped)
		if err != nil {
			return nil, fmt.Errorf("family %d: %w", ped.FamilyID, err)
		}
		summaries = append(summaries, summary)
	}
	logger.WithField("families", len(summaries)).Info("Family histories summarized")
	return summaries, nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

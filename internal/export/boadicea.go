// Package export writes simulated pedigrees in the BOADICEA import format
// and as an Excel workbook.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brca-pedigree-sim/internal/domain"
)

// File titles written on the first line of each export.
const (
	PedigreeTitle      = "BOADICEA import pedigree file format 2.0"
	FamilyHistoryTitle = "Summary family history information"
)

// Content types of the exported files.
const (
	TextContentType = "text/tab-separated-values"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// PedigreeHeader is the BOADICEA v2.0 column order.
var PedigreeHeader = []string{
	"FamID", "Name", "Target", "IndivID", "FathID", "MothID",
	"Sex", "Twin", "Dead", "Age", "Yob", "1BrCa",
	"2BrCa", "OvCa", "ProCa", "PanCa", "Gtest", "Mutn",
	"Ashkn", "ER", "PR", "HER2", "CK14", "CK56",
}

// FamilyHistoryHeader is the column order of the family history file.
var FamilyHistoryHeader = []string{
	"FamID", "ProID", "FamHx", "ls1BrCa", "gr1BrCa", "1OvCa",
	"m2BrCa", "p2BrCa", "m2OvCa", "p2OvCa", "maleBr", "PanCa",
}

// ErrMalformedFile is returned when an imported file does not follow the
// BOADICEA layout.
var ErrMalformedFile = errors.New("malformed BOADICEA file")

func newTabWriter(w io.Writer) *csv.Writer {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	return writer
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// PedigreeRecord returns the BOADICEA row of an individual.
func PedigreeRecord(ind *domain.Individual) []string {
	return []string{
		strconv.Itoa(ind.FamilyID),
		strconv.Itoa(ind.Name()),
		flag(ind.IsProband),
		strconv.Itoa(ind.ID),
		strconv.Itoa(ind.FatherID),
		strconv.Itoa(ind.MotherID),
		ind.Sex.String(),
		flag(ind.IsTwin),
		flag(ind.IsDead),
		strconv.Itoa(ind.Age),
		strconv.Itoa(ind.BirthYear),
		strconv.Itoa(ind.BreastCancerAge1),
		strconv.Itoa(ind.BreastCancerAge2),
		strconv.Itoa(ind.OvarianCancerAge),
		strconv.Itoa(ind.ProstateCancerAge),
		strconv.Itoa(ind.PancreaticCancerAge),
		ind.GeneticTest.String(),
		ind.MutationStatus.String(),
		flag(ind.Ashkenazi),
		string(ind.Markers.ER),
		string(ind.Markers.PR),
		string(ind.Markers.HER2),
		string(ind.Markers.CK14),
		string(ind.Markers.CK56),
	}
}

// WritePedigrees writes the pedigrees as one tab-separated row per
// individual, in pedigree order.
func WritePedigrees(w io.Writer, pedigrees []*domain.Pedigree) error {
	writer := newTabWriter(w)
	if err := writer.Write([]string{PedigreeTitle}); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}
	if err := writer.Write(PedigreeHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, ped := range pedigrees {
		for _, ind := range ped.Members {
			if err := writer.Write(PedigreeRecord(ind)); err != nil {
				return fmt.Errorf("failed to write individual %d: %w", ind.ID, err)
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFamilyHistories writes one tab-separated row per summary.
func WriteFamilyHistories(w io.Writer, summaries []domain.FamilyHistorySummary) error {
	writer := newTabWriter(w)
	if err := writer.Write([]string{FamilyHistoryTitle}); err != nil {
		return fmt.Errorf("failed to write title: %w", err)
	}
	if err := writer.Write(FamilyHistoryHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, summary := range summaries {
		vector := summary.Vector()
		record := make([]string, len(vector))
		for i, v := range vector {
			record[i] = strconv.Itoa(v)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write family %d: %w", summary.FamilyID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadPedigrees parses a file written by WritePedigrees. Consecutive rows
// with the same FamID form one pedigree.
func ReadPedigrees(r io.Reader) ([]*domain.Pedigree, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	title, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing title: %v", ErrMalformedFile, err)
	}
	if len(title) == 0 || strings.TrimSpace(title[0]) != PedigreeTitle {
		return nil, fmt.Errorf("%w: unexpected title %q", ErrMalformedFile, title)
	}
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %v", ErrMalformedFile, err)
	}
	if len(trimEmpty(header)) != len(PedigreeHeader) {
		return nil, fmt.Errorf("%w: expected %d columns, got %d", ErrMalformedFile, len(PedigreeHeader), len(header))
	}

	var pedigrees []*domain.Pedigree
	var current *domain.Pedigree
	for line := 3; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ind, err := parseIndividual(trimEmpty(record))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if current == nil || current.FamilyID != ind.FamilyID {
			current = &domain.Pedigree{FamilyID: ind.FamilyID}
			pedigrees = append(pedigrees, current)
		}
		current.Members = append(current.Members, ind)
	}
	return pedigrees, nil
}

// trimEmpty drops trailing empty fields left by writers that end every
// field with a tab.
func trimEmpty(record []string) []string {
	for len(record) > 0 && record[len(record)-1] == "" {
		record = record[:len(record)-1]
	}
	return record
}

func parseIndividual(record []string) (*domain.Individual, error) {
	if len(record) != len(PedigreeHeader) {
		return nil, fmt.Errorf("%w: expected %d columns, got %d", ErrMalformedFile, len(PedigreeHeader), len(record))
	}

	ints := make(map[int]int)
	for _, col := range []int{0, 1, 2, 3, 4, 5, 7, 8, 9, 10, 11, 12, 13, 14, 15, 18} {
		v, err := strconv.Atoi(record[col])
		if err != nil {
			return nil, fmt.Errorf("%w: column %s: %v", ErrMalformedFile, PedigreeHeader[col], err)
		}
		ints[col] = v
	}

	sex := domain.Sex(record[6])
	if !sex.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSex, record[6])
	}
	status, err := domain.ParseMutationStatus(record[17])
	if err != nil {
		return nil, err
	}
	test := domain.GeneticTestType(record[16])
	if !test.IsValid() {
		return nil, fmt.Errorf("%w: column Gtest: %q", ErrMalformedFile, record[16])
	}

	return &domain.Individual{
		FamilyID:            ints[0],
		ID:                  ints[3],
		IsProband:           ints[2] == 1,
		FatherID:            ints[4],
		MotherID:            ints[5],
		Sex:                 sex,
		IsTwin:              ints[7] == 1,
		IsDead:              ints[8] == 1,
		Age:                 ints[9],
		BirthYear:           ints[10],
		BreastCancerAge1:    ints[11],
		BreastCancerAge2:    ints[12],
		OvarianCancerAge:    ints[13],
		ProstateCancerAge:   ints[14],
		PancreaticCancerAge: ints[15],
		GeneticTest:         test,
		MutationStatus:      status,
		Ashkenazi:           ints[18] == 1,
		Markers: domain.Markers{
			ER:   domain.MarkerStatus(record[19]),
			PR:   domain.MarkerStatus(record[20]),
			HER2: domain.MarkerStatus(record[21]),
			CK14: domain.MarkerStatus(record[22]),
			CK56: domain.MarkerStatus(record[23]),
		},
	}, nil
}

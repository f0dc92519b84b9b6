package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentledger/internal/database/repository"
	"rentledger/internal/ledger"
)

// ImportService ingests bank statement CSV exports.
type ImportService struct {
	Bank *repository.BankRepo
}

// ImportOptions describes the statement layout. Column names refer to the
// header row.
type ImportOptions struct {
	Delimiter    rune
	DateColumn   string
	AmountColumn string
	DescColumn   string
	Strict       bool // abort on the first bad row instead of skipping it
}

type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

var statementDateLayouts = []string{"2006-01-02", "02.01.2006", "02/01/2006"}

func parseStatementDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range statementDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}

// Import reads statement rows and stores one bank line per row. Amounts
// accept both German ("1.234,56") and plain decimal forms. In strict mode
// the first bad row aborts the import and nothing is kept; otherwise bad
// rows are skipped and recorded.
func (s *ImportService) Import(ctx context.Context, r io.Reader, opts ImportOptions) (ImportResult, error) {
	res := ImportResult{}
	csvr := csv.NewReader(bufio.NewReader(r))
	if opts.Delimiter != 0 {
		csvr.Comma = opts.Delimiter
	}
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1

	header, err := csvr.Read()
	if err != nil {
		return res, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	dateIdx, ok := cols[opts.DateColumn]
	if !ok {
		return res, fmt.Errorf("missing column %q", opts.DateColumn)
	}
	amountIdx, ok := cols[opts.AmountColumn]
	if !ok {
		return res, fmt.Errorf("missing column %q", opts.AmountColumn)
	}
	descIdx, hasDesc := cols[opts.DescColumn]

	var lines []ledger.BankLine
	line := 1
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if opts.Strict {
				return res, fmt.Errorf("line %d: %w", line, err)
			}
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if len(rec) <= dateIdx || len(rec) <= amountIdx {
			if opts.Strict {
				return res, fmt.Errorf("line %d: too few columns", line)
			}
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Errorf("line %d: too few columns", line))
			continue
		}

		date, err := parseStatementDate(rec[dateIdx])
		if err != nil {
			if opts.Strict {
				return res, fmt.Errorf("line %d: %w", line, err)
			}
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		cents, err := ledger.ParseAmount(rec[amountIdx])
		if err != nil {
			if opts.Strict {
				return res, fmt.Errorf("line %d: %w", line, err)
			}
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		desc := ""
		if hasDesc && len(rec) > descIdx {
			desc = strings.TrimSpace(rec[descIdx])
		}

		lines = append(lines, ledger.BankLine{
			ID:          uuid.NewString(),
			OpDate:      date,
			AmountCents: cents,
			Description: desc,
		})
	}

	if opts.Strict {
		if err := s.Bank.InsertBatch(ctx, lines); err != nil {
			return res, fmt.Errorf("insert: %w", err)
		}
		res.Imported = len(lines)
		return res, nil
	}
	for _, b := range lines {
		if err := s.Bank.Insert(ctx, b); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Errorf("insert %s: %w", b.OpDate.Format("2006-01-02"), err))
			continue
		}
		res.Imported++
	}
	return res, nil
}

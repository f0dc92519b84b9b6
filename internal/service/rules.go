package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"rentledger/internal/database/repository"
	"rentledger/internal/ledger"
)

// UnknownAccountError reports a split or rule part referencing an account
// that does not exist.
type UnknownAccountError struct {
	Number string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("unknown account %s", e.Number)
}

// UnknownTenantError reports a split or rule part referencing a tenant that
// does not exist.
type UnknownTenantError struct {
	ID string
}

func (e *UnknownTenantError) Error() string {
	return fmt.Sprintf("unknown tenant %s", e.ID)
}

// RuleService applies allocation rules to bank lines.
type RuleService struct {
	Bank     *repository.BankRepo
	Splits   *repository.SplitRepo
	Rules    *repository.RuleRepo
	Accounts *repository.AccountRepo
	Tenants  *repository.TenantRepo
}

// ApplyRule runs one rule against one bank line and, when it matches and
// allocates cleanly, persists the splits in a single transaction. It
// returns the number of splits written; zero with a nil error means the
// rule did not match.
func (s *RuleService) ApplyRule(ctx context.Context, ruleID, bankID string) (int, error) {
	b, err := s.Bank.Get(ctx, bankID)
	if err != nil {
		return 0, err
	}
	if b == nil {
		return 0, fmt.Errorf("bank line %s not found", bankID)
	}
	r, err := s.Rules.Get(ctx, ruleID)
	if err != nil {
		return 0, err
	}
	if r == nil {
		return 0, fmt.Errorf("rule %s not found", ruleID)
	}
	if !r.Matches(*b) {
		return 0, nil
	}
	return s.allocateAndPersist(ctx, *r, *b)
}

func (s *RuleService) allocateAndPersist(ctx context.Context, r ledger.Rule, b ledger.BankLine) (int, error) {
	splits, err := ledger.Allocate(r, b)
	if err != nil {
		return 0, err
	}
	if err := s.checkReferences(ctx, splits); err != nil {
		return 0, err
	}
	for i := range splits {
		splits[i].ID = uuid.NewString()
	}
	if err := s.Splits.InsertBatch(ctx, splits); err != nil {
		return 0, err
	}
	return len(splits), nil
}

func (s *RuleService) checkReferences(ctx context.Context, splits []ledger.Split) error {
	for _, sp := range splits {
		ok, err := s.Accounts.Exists(ctx, sp.Account)
		if err != nil {
			return err
		}
		if !ok {
			return &UnknownAccountError{Number: sp.Account}
		}
		if sp.TenantID != nil {
			ok, err := s.Tenants.Exists(ctx, *sp.TenantID)
			if err != nil {
				return err
			}
			if !ok {
				return &UnknownTenantError{ID: *sp.TenantID}
			}
		}
	}
	return nil
}

// ApplyRulesResult summarizes a batch run.
type ApplyRulesResult struct {
	Scanned int
	Applied int
	Skipped int // already balanced
}

// ApplyRules runs all active rules over the given bank lines (all lines
// when bankID is empty). Lines whose splits already balance are skipped, so
// re-running is a no-op. Rules are tried in (priority, id) order; the first
// rule that both matches and allocates cleanly wins. One line's failure
// never aborts the batch.
func (s *RuleService) ApplyRules(ctx context.Context, bankID string) (ApplyRulesResult, error) {
	var res ApplyRulesResult

	var lines []ledger.BankLine
	if bankID != "" {
		b, err := s.Bank.Get(ctx, bankID)
		if err != nil {
			return res, err
		}
		if b == nil {
			return res, fmt.Errorf("bank line %s not found", bankID)
		}
		lines = []ledger.BankLine{*b}
	} else {
		var err error
		lines, err = s.Bank.List(ctx, zeroTime, zeroTime)
		if err != nil {
			return res, err
		}
	}

	rules, err := s.Rules.ListActive(ctx)
	if err != nil {
		return res, err
	}

	for _, b := range lines {
		res.Scanned++
		sum, err := s.Splits.SumByBank(ctx, b.ID)
		if err != nil {
			return res, err
		}
		if sum == b.AmountCents {
			res.Skipped++
			continue
		}
		for _, r := range rules {
			if !r.Matches(b) {
				continue
			}
			n, err := s.allocateAndPersist(ctx, r, b)
			if err != nil {
				logrus.WithFields(logrus.Fields{"rule": r.ID, "bank": b.ID}).
					Warnf("rule did not allocate: %v", err)
				continue
			}
			logrus.WithFields(logrus.Fields{"rule": r.Name, "bank": b.ID}).
				Infof("allocated %d splits", n)
			res.Applied++
			break
		}
	}
	return res, nil
}

// SplitEntry is one manually entered split line.
type SplitEntry struct {
	Account     string
	TenantID    *string
	AmountCents int64
	Note        string
}

// BalanceReport compares a bank line's amount against its split sum.
// Imbalance is reported, never rejected, for manual entry.
type BalanceReport struct {
	BankCents  int64
	SplitCents int64
}

// Diff is split sum minus bank amount; zero means balanced.
func (r BalanceReport) Diff() int64 { return r.SplitCents - r.BankCents }

// AddSplits persists manually entered splits for a bank line after checking
// the referenced accounts and tenants exist, and reports the resulting
// balance. Unbalanced totals are allowed.
func (s *RuleService) AddSplits(ctx context.Context, bankID string, entries []SplitEntry) (BalanceReport, error) {
	b, err := s.Bank.Get(ctx, bankID)
	if err != nil {
		return BalanceReport{}, err
	}
	if b == nil {
		return BalanceReport{}, fmt.Errorf("bank line %s not found", bankID)
	}

	splits := make([]ledger.Split, 0, len(entries))
	for _, e := range entries {
		splits = append(splits, ledger.Split{
			ID:          uuid.NewString(),
			BankID:      bankID,
			Account:     e.Account,
			TenantID:    e.TenantID,
			AmountCents: e.AmountCents,
			Note:        e.Note,
		})
	}
	if err := s.checkReferences(ctx, splits); err != nil {
		return BalanceReport{}, err
	}
	if err := s.Splits.InsertBatch(ctx, splits); err != nil {
		return BalanceReport{}, err
	}
	sum, err := s.Splits.SumByBank(ctx, bankID)
	if err != nil {
		return BalanceReport{}, err
	}
	return BalanceReport{BankCents: b.AmountCents, SplitCents: sum}, nil
}

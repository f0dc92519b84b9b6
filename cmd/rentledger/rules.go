package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rentledger/internal/ledger"
	"rentledger/internal/service"
)

// importDelimiter picks the configured CSV delimiter, falling back to the
// semicolon German bank exports use when the config leaves it empty.
func importDelimiter(s string) rune {
	if s == "" {
		return ';'
	}
	return []rune(s)[0]
}

func importCommand(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a bank statement CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			opts := service.ImportOptions{
				Delimiter:    importDelimiter(a.cfg.Import.Delimiter),
				DateColumn:   a.cfg.Import.DateColumn,
				AmountColumn: a.cfg.Import.AmountColumn,
				DescColumn:   a.cfg.Import.DescColumn,
				Strict:       strict,
			}
			res, err := a.importer.Import(cmd.Context(), f, opts)
			if err != nil {
				return err
			}
			for _, e := range res.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", e)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d\n", res.Imported, res.Skipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "abort on the first bad row")
	return cmd
}

func addSplitCommand(a *app) *cobra.Command {
	var bank, account, tenant, amount, note string

	cmd := &cobra.Command{
		Use:   "add-split",
		Short: "Book a manual split against a bank line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := ledger.ParseAmount(amount)
			if err != nil {
				return err
			}
			entry := service.SplitEntry{Account: account, AmountCents: cents, Note: note}
			if tenant != "" {
				entry.TenantID = &tenant
			}
			rep, err := a.rules.AddSplits(cmd.Context(), bank, []service.SplitEntry{entry})
			if err != nil {
				return err
			}
			if d := rep.Diff(); d != 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "split saved, line off by %s\n", ledger.FormatCents(d))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "split saved, line balanced")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&bank, "bank", "", "bank line id")
	cmd.Flags().StringVar(&account, "account", "", "account number")
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant id, optional")
	cmd.Flags().StringVar(&amount, "amount", "", "split amount")
	cmd.Flags().StringVar(&note, "note", "", "free text")
	_ = cmd.MarkFlagRequired("bank")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func deleteSplitCommand(a *app) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "delete-split",
		Short: "Delete a split from a bank line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.splits.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "split %s deleted\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "split id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func addRuleCommand(a *app) *cobra.Command {
	var name, like, regex, min, max, sign string
	var priority int

	cmd := &cobra.Command{
		Use:   "add-rule",
		Short: "Create an allocation rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := ledger.Rule{
				ID:         uuid.NewString(),
				Name:       name,
				MatchLike:  like,
				MatchRegex: regex,
				Sign:       ledger.Sign(sign),
				Priority:   priority,
				Active:     true,
			}
			if min != "" {
				cents, err := ledger.ParseAmount(min)
				if err != nil {
					return fmt.Errorf("min: %w", err)
				}
				r.MinCents = &cents
			}
			if max != "" {
				cents, err := ledger.ParseAmount(max)
				if err != nil {
					return fmt.Errorf("max: %w", err)
				}
				r.MaxCents = &cents
			}
			if err := a.rules.Rules.Insert(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rule %s saved\n", r.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "rule name")
	cmd.Flags().StringVar(&like, "like", "", "substring match on the description")
	cmd.Flags().StringVar(&regex, "regex", "", "case-insensitive regex match on the description")
	cmd.Flags().StringVar(&min, "min", "", "minimum signed amount")
	cmd.Flags().StringVar(&max, "max", "", "maximum signed amount")
	cmd.Flags().StringVar(&sign, "sign", string(ledger.SignAny), "any|in|out")
	cmd.Flags().IntVar(&priority, "priority", 100, "lower runs first")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func addRulePartCommand(a *app) *cobra.Command {
	var rule, account, tenant, fixed, note string
	var percent float64
	var remainder bool

	cmd := &cobra.Command{
		Use:   "add-rule-part",
		Short: "Add a fixed, percent or remainder part to a rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := ledger.RulePart{
				ID:      uuid.NewString(),
				RuleID:  rule,
				Account: account,
				Note:    note,
			}
			if tenant != "" {
				p.TenantID = &tenant
			}
			switch {
			case remainder:
				p.Kind = ledger.PartRemainder
			case percent != 0:
				p.Kind = ledger.PartPercent
				p.ValuePercent = percent
			case fixed != "":
				cents, err := ledger.ParseAmount(fixed)
				if err != nil {
					return fmt.Errorf("fixed: %w", err)
				}
				p.Kind = ledger.PartFixed
				p.ValueCents = cents
			default:
				return fmt.Errorf("one of --fixed, --percent or --remainder is required")
			}
			if err := a.rules.Rules.InsertPart(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "part %s saved\n", p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&rule, "rule", "", "rule id")
	cmd.Flags().StringVar(&account, "account", "", "account number")
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant id, optional")
	cmd.Flags().StringVar(&fixed, "fixed", "", "fixed amount")
	cmd.Flags().Float64Var(&percent, "percent", 0, "percent of the line amount")
	cmd.Flags().BoolVar(&remainder, "remainder", false, "absorb whatever the other parts leave")
	cmd.Flags().StringVar(&note, "note", "", "split note, defaults to the rule name")
	_ = cmd.MarkFlagRequired("rule")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func applyRulesCommand(a *app) *cobra.Command {
	var bank string

	cmd := &cobra.Command{
		Use:   "apply-rules",
		Short: "Run all active rules over unbalanced bank lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.rules.ApplyRules(cmd.Context(), bank)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, allocated %d, already balanced %d\n",
				res.Scanned, res.Applied, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&bank, "bank", "", "restrict to one bank line id")
	return cmd
}

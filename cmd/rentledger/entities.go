package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rentledger/internal/ledger"
)

func addTenantCommand(a *app) *cobra.Command {
	var id, name, unit string

	cmd := &cobra.Command{
		Use:   "add-tenant",
		Short: "Create or update a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.tenants.Upsert(cmd.Context(), ledger.Tenant{ID: id, Name: name, Unit: unit}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tenant %s saved\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "tenant id, e.g. M001")
	cmd.Flags().StringVar(&name, "name", "", "tenant name")
	cmd.Flags().StringVar(&unit, "unit", "", "unit or flat label")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func addAccountCommand(a *app) *cobra.Command {
	var number, name, kind string

	cmd := &cobra.Command{
		Use:   "add-account",
		Short: "Create or update a ledger account",
		RunE: func(cmd *cobra.Command, args []string) error {
			acct := ledger.Account{Number: number, Name: name, Kind: kind}
			if err := a.accounts.Upsert(cmd.Context(), acct); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s saved\n", number)
			return nil
		},
	}
	cmd.Flags().StringVar(&number, "number", "", "account number, e.g. 3000")
	cmd.Flags().StringVar(&name, "name", "", "account name")
	cmd.Flags().StringVar(&kind, "kind", ledger.AccountOther, "asset|liability|income|expense|other")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func addLeaseCommand(a *app) *cobra.Command {
	var tenant, since, until, rent, nk, tolerance string
	var dueDay, graceDays int

	cmd := &cobra.Command{
		Use:   "add-lease",
		Short: "Create or update a lease term for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			sinceDate, err := parseDate(since)
			if err != nil {
				return err
			}
			l := ledger.Lease{
				TenantID:  tenant,
				Since:     sinceDate,
				DueDay:    dueDay,
				GraceDays: graceDays,
			}
			if until != "" {
				u, err := parseDate(until)
				if err != nil {
					return err
				}
				l.Until = &u
			}
			if l.RentCents, err = ledger.ParseAmount(rent); err != nil {
				return fmt.Errorf("rent: %w", err)
			}
			if nk != "" {
				if l.NKCents, err = ledger.ParseAmount(nk); err != nil {
					return fmt.Errorf("nk: %w", err)
				}
			}
			if tolerance != "" {
				if l.ToleranceCents, err = ledger.ParseAmount(tolerance); err != nil {
					return fmt.Errorf("tolerance: %w", err)
				}
			}
			if err := a.leases.Upsert(cmd.Context(), l); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "lease %s from %s saved\n", tenant, sinceDate.Format("2006-01-02"))
			return nil
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant id")
	cmd.Flags().StringVar(&since, "since", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&until, "until", "", "end date YYYY-MM-DD, empty for open-ended")
	cmd.Flags().StringVar(&rent, "rent", "", "net rent per month, e.g. 850,00")
	cmd.Flags().StringVar(&nk, "nk", "", "operating cost advance per month")
	cmd.Flags().StringVar(&tolerance, "tolerance", "", "amount tolerance for the rent check")
	cmd.Flags().IntVar(&dueDay, "due-day", 3, "day of month the rent is due")
	cmd.Flags().IntVar(&graceDays, "grace", 3, "grace days before a payment counts as late")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("since")
	_ = cmd.MarkFlagRequired("rent")
	return cmd
}

func addChargeCommand(a *app) *cobra.Command {
	var tenant, due, amount, issued, note string

	cmd := &cobra.Command{
		Use:   "add-charge",
		Short: "Record an operating cost settlement charge or credit",
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := parseDate(due)
			if err != nil {
				return err
			}
			cents, err := ledger.ParseAmount(amount)
			if err != nil {
				return err
			}
			m := ledger.ManualCharge{
				ID:          uuid.NewString(),
				TenantID:    tenant,
				Kind:        ledger.KindSettlement,
				DueDate:     dueDate,
				AmountCents: cents,
				Note:        note,
			}
			if issued != "" {
				d, err := parseDate(issued)
				if err != nil {
					return err
				}
				m.IssuedDate = &d
			}
			if err := a.charges.Insert(cmd.Context(), m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "charge %s saved\n", m.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant id")
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, negative for a credit")
	cmd.Flags().StringVar(&issued, "issued", "", "statement date YYYY-MM-DD")
	cmd.Flags().StringVar(&note, "note", "", "free text")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("due")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func deleteChargeCommand(a *app) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "delete-charge",
		Short: "Delete a settlement charge",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.charges.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "charge %s deleted\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "charge id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func chargesCommand(a *app) *cobra.Command {
	var tenant, asOf string

	cmd := &cobra.Command{
		Use:   "charges",
		Short: "List a tenant's settlement charges with paid and open amounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cut := time.Now().UTC()
			if asOf != "" {
				var err error
				if cut, err = parseDate(asOf); err != nil {
					return err
				}
			}
			out, err := a.aging.SettlementStatuses(cmd.Context(), tenant, cut)
			if err != nil {
				return err
			}
			w := newTabWriter(cmd)
			fmt.Fprintln(w, "ID\tDUE\tAMOUNT\tPAID\tOPEN\tNOTE")
			for _, s := range out {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					s.Charge.ID,
					s.Charge.DueDate.Format("2006-01-02"),
					ledger.FormatCents(s.Charge.AmountCents),
					ledger.FormatCents(s.PaidCents),
					ledger.FormatCents(s.OpenCents),
					s.Charge.Note)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant id")
	cmd.Flags().StringVar(&asOf, "as-of", "", "cut-off date YYYY-MM-DD, default today")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"rentledger/internal/ledger"
)

func newTabWriter(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
}

func rentCheckCommand(a *app) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "rent-check",
		Short: "Compare each lease's rent and advance against the month's payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMonth(month)
			if err != nil {
				return err
			}
			rows, err := a.rentCheck.Check(cmd.Context(), m)
			if err != nil {
				return err
			}
			w := newTabWriter(cmd)
			fmt.Fprintln(w, "TENANT\tRENT DUE\tRENT PAID\tNK DUE\tNK PAID\tRENT\tNK\tOVERALL\tLATE")
			for _, r := range rows {
				late := "-"
				if r.Late != nil {
					late = "no"
					if *r.Late {
						late = "yes"
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.TenantID,
					ledger.FormatCents(r.RentDueCents), ledger.FormatCents(r.RentPaid),
					ledger.FormatCents(r.NKDueCents), ledger.FormatCents(r.NKPaid),
					r.RentStatus, r.NKStatus, r.Overall, late)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&month, "month", time.Now().UTC().Format("2006-01"), "month YYYY-MM")
	return cmd
}

func agingCommand(a *app) *cobra.Command {
	var asOf, from, priority string
	var detail bool

	cmd := &cobra.Command{
		Use:   "aging",
		Short: "Bucket each tenant's open charges by overdue age",
		RunE: func(cmd *cobra.Command, args []string) error {
			cut := time.Now().UTC()
			if asOf != "" {
				var err error
				if cut, err = parseDate(asOf); err != nil {
					return err
				}
			}
			var fromMonth time.Time
			if from != "" {
				var err error
				if fromMonth, err = parseMonth(from); err != nil {
					return err
				}
			}
			if priority == "" {
				priority = a.cfg.Aging.Priority
			}
			prio, err := ledger.ParsePriority(priority)
			if err != nil {
				return err
			}

			rows, err := a.aging.Compute(cmd.Context(), cut, fromMonth, prio)
			if err != nil {
				return err
			}
			w := newTabWriter(cmd)
			fmt.Fprintln(w, "TENANT\tNAME\t0-30\t31-60\t61-90\t90+\tTOTAL")
			var total int64
			for _, r := range rows {
				b := r.Buckets
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.Tenant.ID, r.Tenant.Name,
					ledger.FormatCents(b.B0to30), ledger.FormatCents(b.B31to60),
					ledger.FormatCents(b.B61to90), ledger.FormatCents(b.B90Plus),
					ledger.FormatCents(b.Total()))
				total += b.Total()
				if detail {
					for _, c := range r.Open {
						fmt.Fprintf(w, "\t%s %s\topen %s\n",
							c.Kind, c.DueDate.Format("2006-01-02"), ledger.FormatCents(c.OpenCents))
					}
				}
			}
			fmt.Fprintf(w, "TOTAL\t\t\t\t\t\t%s\n", ledger.FormatCents(total))
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "cut-off date YYYY-MM-DD, default today")
	cmd.Flags().StringVar(&from, "from", "", "first month YYYY-MM, default 12 months back")
	cmd.Flags().StringVar(&priority, "priority", "", "oldest|rent_first|nk_first|nka_first")
	cmd.Flags().BoolVar(&detail, "detail", false, "list the open charges under each tenant")
	return cmd
}

func unbalancedCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unbalanced",
		Short: "List bank lines whose splits do not sum to the line amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := a.bank.ListUnbalanced(cmd.Context())
			if err != nil {
				return err
			}
			w := newTabWriter(cmd)
			fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tSPLIT\tDIFF\tDESCRIPTION")
			for _, l := range lines {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					l.ID, l.OpDate.Format("2006-01-02"),
					ledger.FormatCents(l.AmountCents), ledger.FormatCents(l.SplitCents),
					ledger.FormatCents(l.SplitCents-l.AmountCents), l.Description)
			}
			return w.Flush()
		},
	}
}

func unassignedCommand(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "unassigned",
		Short: "List bank lines with no splits at all",
		RunE: func(cmd *cobra.Command, args []string) error {
			var fromDate, toDate time.Time
			var err error
			if from != "" {
				if fromDate, err = parseDate(from); err != nil {
					return err
				}
			}
			if to != "" {
				if toDate, err = parseDate(to); err != nil {
					return err
				}
			}
			lines, err := a.bank.ListUnassigned(cmd.Context(), fromDate, toDate)
			if err != nil {
				return err
			}
			w := newTabWriter(cmd)
			fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tDESCRIPTION")
			for _, l := range lines {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					l.ID, l.OpDate.Format("2006-01-02"),
					ledger.FormatCents(l.AmountCents), l.Description)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "end date YYYY-MM-DD")
	return cmd
}

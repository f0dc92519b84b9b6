package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rentledger/internal/config"
	"rentledger/internal/database"
	"rentledger/internal/database/repository"
	"rentledger/internal/service"
)

// app holds the opened database and the services the subcommands run
// against. It is populated by the root command's PersistentPreRunE.
type app struct {
	cfg config.Config
	db  *sql.DB

	tenants  *repository.TenantRepo
	accounts *repository.AccountRepo
	leases   *repository.LeaseRepo
	charges  *repository.ManualChargeRepo
	bank     *repository.BankRepo
	splits   *repository.SplitRepo

	rules     *service.RuleService
	aging     *service.AgingService
	rentCheck *service.RentCheckService
	importer  *service.ImportService
}

func (a *app) accountSets() service.AccountSets {
	return service.AccountSets{
		Rent:       a.cfg.Aging.RentAccounts,
		NK:         a.cfg.Aging.NKAccounts,
		Settlement: a.cfg.Aging.SettlementAccounts,
	}
}

func preRun(a *app, dbPath *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if *dbPath != "" {
			cfg.Database.Path = *dbPath
		}
		a.cfg = cfg

		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return fmt.Errorf("migrate: %w", err)
		}
		if err := database.SeedDefaults(cmd.Context(), db); err != nil {
			db.Close()
			return fmt.Errorf("seed accounts: %w", err)
		}
		a.db = db

		a.tenants = repository.NewTenantRepo(db)
		a.accounts = repository.NewAccountRepo(db)
		a.leases = repository.NewLeaseRepo(db)
		a.charges = repository.NewManualChargeRepo(db)
		a.bank = repository.NewBankRepo(db)
		a.splits = repository.NewSplitRepo(db)

		a.rules = &service.RuleService{
			Bank:     a.bank,
			Splits:   a.splits,
			Rules:    repository.NewRuleRepo(db),
			Accounts: a.accounts,
			Tenants:  a.tenants,
		}
		a.aging = &service.AgingService{
			Tenants:  a.tenants,
			Leases:   a.leases,
			Charges:  a.charges,
			Splits:   a.splits,
			Accounts: a.accountSets(),
		}
		a.rentCheck = &service.RentCheckService{
			Leases:   a.leases,
			Splits:   a.splits,
			Accounts: a.accountSets(),
		}
		a.importer = &service.ImportService{Bank: a.bank}
		return nil
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var dbPath string

	root := &cobra.Command{
		Use:           "rentledger",
		Short:         "Rent ledger with rule-based splits and open-item aging",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "database file (overrides config)")
	root.PersistentPreRunE = preRun(a, &dbPath)
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if a.db != nil {
			a.db.Close()
		}
	}

	root.AddCommand(
		initCommand(a),
		importCommand(a),
		addTenantCommand(a),
		addAccountCommand(a),
		addLeaseCommand(a),
		addChargeCommand(a),
		deleteChargeCommand(a),
		chargesCommand(a),
		addSplitCommand(a),
		deleteSplitCommand(a),
		addRuleCommand(a),
		addRulePartCommand(a),
		applyRulesCommand(a),
		rentCheckCommand(a),
		agingCommand(a),
		unbalancedCommand(a),
		unassignedCommand(a),
	)
	return root
}

func initCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and load the default chart of accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := a.accounts.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s ready, %d accounts\n", a.cfg.Database.Path, len(accounts))
			return nil
		},
	}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

func parseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("month %q: want YYYY-MM", s)
	}
	return t, nil
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if err := newRootCmd().Execute(); err != nil {
		logrus.Fatal(err)
	}
}

package database

import (
	"context"
	"database/sql"

	"rentledger/internal/ledger"
)

// defaultAccounts is the standard chart of accounts for a small rental
// property: bank and receivables, rent and operating-cost income, and the
// usual running-cost expense accounts.
var defaultAccounts = []ledger.Account{
	{Number: "0300", Name: "Grundstücke", Kind: ledger.AccountAsset},
	{Number: "0310", Name: "Gebäude", Kind: ledger.AccountAsset},
	{Number: "0380", Name: "Technische Anlagen", Kind: ledger.AccountAsset},
	{Number: "1000", Name: "Bank", Kind: ledger.AccountAsset},
	{Number: "1360", Name: "Mietkautionen", Kind: ledger.AccountLiability},
	{Number: "2000", Name: "Mietforderungen", Kind: ledger.AccountAsset},
	{Number: "2005", Name: "Nebenkostenforderungen", Kind: ledger.AccountAsset},
	{Number: "2200", Name: "Verbindlichkeiten L+L", Kind: ledger.AccountLiability},
	{Number: "3000", Name: "Mieterträge Nettomieten", Kind: ledger.AccountIncome},
	{Number: "3010", Name: "Betriebskostenvorauszahlungen", Kind: ledger.AccountIncome},
	{Number: "3020", Name: "Erträge BK-Abrechnung", Kind: ledger.AccountIncome},
	{Number: "3030", Name: "Sonstige Mieterträge", Kind: ledger.AccountIncome},
	{Number: "4000", Name: "Strom Allgemein", Kind: ledger.AccountExpense},
	{Number: "4010", Name: "Wasser/Abwasser", Kind: ledger.AccountExpense},
	{Number: "4020", Name: "Gas/Fernwärme", Kind: ledger.AccountExpense},
	{Number: "4030", Name: "Heizkosten (Brennstoff)", Kind: ledger.AccountExpense},
	{Number: "4040", Name: "Müllabfuhr", Kind: ledger.AccountExpense},
	{Number: "4050", Name: "Straßenreinigung/Winterdienst", Kind: ledger.AccountExpense},
	{Number: "4060", Name: "Gartenpflege", Kind: ledger.AccountExpense},
	{Number: "4070", Name: "Hausmeister (extern)", Kind: ledger.AccountExpense},
	{Number: "5000", Name: "Reparaturen Gebäude", Kind: ledger.AccountExpense},
	{Number: "5010", Name: "Wartung (Heizung/Aufzug/Brand)", Kind: ledger.AccountExpense},
	{Number: "5100", Name: "Verwaltungskosten", Kind: ledger.AccountExpense},
	{Number: "5200", Name: "Rechts- und Beratungskosten", Kind: ledger.AccountExpense},
	{Number: "5300", Name: "Bankgebühren", Kind: ledger.AccountExpense},
	{Number: "7000", Name: "Grundsteuer", Kind: ledger.AccountExpense},
	{Number: "7010", Name: "Versicherungen", Kind: ledger.AccountExpense},
}

// SeedDefaults loads the default chart of accounts into an empty database.
// It is idempotent and safe to run on every startup; the seed is written in
// one transaction so a half-loaded chart never survives.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return WithTx(db, func(tx *sql.Tx) error {
		for _, a := range defaultAccounts {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO accounts(number, name, kind) VALUES (?, ?, ?);
			`, a.Number, a.Name, a.Kind); err != nil {
				return err
			}
		}
		return nil
	})
}

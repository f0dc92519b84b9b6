package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rentledger/internal/database/repository"
)

func defaultImportOptions() ImportOptions {
	return ImportOptions{
		Delimiter:    ';',
		DateColumn:   "Datum",
		AmountColumn: "Betrag",
		DescColumn:   "Verwendungszweck",
	}
}

func TestImportGermanStatement(t *testing.T) {
	db := newTestDB(t)
	svc := &ImportService{Bank: repository.NewBankRepo(db)}
	ctx := context.Background()

	csv := "Datum;Betrag;Verwendungszweck\n" +
		"01.03.2026;1.050,00;DAUERAUFTRAG MUELLER MIETE\n" +
		"02.03.2026;-89,90;STADTWERKE ABSCHLAG\n"

	res, err := svc.Import(ctx, strings.NewReader(csv), defaultImportOptions())
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)
	require.Zero(t, res.Skipped)
	require.Empty(t, res.Errors)

	lines, err := svc.Bank.List(ctx, zeroTime, zeroTime)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, day(2026, time.March, 1), lines[0].OpDate.UTC())
	require.Equal(t, int64(105000), lines[0].AmountCents)
	require.Equal(t, "DAUERAUFTRAG MUELLER MIETE", lines[0].Description)
	require.Equal(t, int64(-8990), lines[1].AmountCents)
}

func TestImportSkipsBadRows(t *testing.T) {
	db := newTestDB(t)
	svc := &ImportService{Bank: repository.NewBankRepo(db)}
	ctx := context.Background()

	csv := "Datum;Betrag;Verwendungszweck\n" +
		"kein datum;100,00;KAPUTT\n" +
		"05.03.2026;nicht zahl;KAPUTT\n" +
		"05.03.2026;200,00;GUT\n"

	res, err := svc.Import(ctx, strings.NewReader(csv), defaultImportOptions())
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)
	require.Equal(t, 2, res.Skipped)
	require.Len(t, res.Errors, 2)
}

func TestImportStrictAbortsOnBadRow(t *testing.T) {
	db := newTestDB(t)
	svc := &ImportService{Bank: repository.NewBankRepo(db)}
	ctx := context.Background()

	opts := defaultImportOptions()
	opts.Strict = true
	csv := "Datum;Betrag;Verwendungszweck\n" +
		"01.03.2026;100,00;GUT\n" +
		"kein datum;100,00;KAPUTT\n"

	res, err := svc.Import(ctx, strings.NewReader(csv), opts)
	require.Error(t, err)
	require.Zero(t, res.Imported)

	// the good row before the bad one must not survive
	lines, err := svc.Bank.List(ctx, zeroTime, zeroTime)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestImportStrictKeepsCleanFile(t *testing.T) {
	db := newTestDB(t)
	svc := &ImportService{Bank: repository.NewBankRepo(db)}
	ctx := context.Background()

	opts := defaultImportOptions()
	opts.Strict = true
	csv := "Datum;Betrag;Verwendungszweck\n" +
		"01.03.2026;100,00;EINS\n" +
		"02.03.2026;200,00;ZWEI\n"

	res, err := svc.Import(ctx, strings.NewReader(csv), opts)
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)

	lines, err := svc.Bank.List(ctx, zeroTime, zeroTime)
	require.NoError(t, err)
	require.Len(t, lines, 2)
}

func TestImportMissingColumn(t *testing.T) {
	db := newTestDB(t)
	svc := &ImportService{Bank: repository.NewBankRepo(db)}

	csv := "Buchungstag;Betrag\n01.03.2026;100,00\n"
	_, err := svc.Import(context.Background(), strings.NewReader(csv), defaultImportOptions())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Datum")
}

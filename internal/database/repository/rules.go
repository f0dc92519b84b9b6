package repository

import (
	"context"
	"database/sql"

	"rentledger/internal/ledger"
)

// RuleRepo handles allocation rules and their parts.
type RuleRepo struct {
	db *sql.DB
}

func NewRuleRepo(db *sql.DB) *RuleRepo {
	return &RuleRepo{db: db}
}

func (r *RuleRepo) Insert(ctx context.Context, rule ledger.Rule) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO rules(id, name, match_like, match_regex, min_amount, max_amount, sign, priority, active)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, rule.ID, rule.Name, rule.MatchLike, rule.MatchRegex, rule.MinCents, rule.MaxCents,
		string(rule.Sign), rule.Priority, rule.Active)
	return err
}

func (r *RuleRepo) InsertPart(ctx context.Context, p ledger.RulePart) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO rule_parts(id, rule_id, account, tenant_id, kind, value_cents, value_percent, note, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, p.ID, p.RuleID, p.Account, p.TenantID, string(p.Kind), p.ValueCents, p.ValuePercent, p.Note)
	return err
}

func (r *RuleRepo) Get(ctx context.Context, id string) (*ledger.Rule, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, name, match_like, match_regex, min_amount, max_amount, sign, priority, active
	FROM rules WHERE id = ?`, id)
	rule, err := scanRule(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := r.attachParts(ctx, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListActive returns active rules in evaluation order: ascending priority,
// ties broken by id.
func (r *RuleRepo) ListActive(ctx context.Context) ([]ledger.Rule, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, match_like, match_regex, min_amount, max_amount, sign, priority, active
	FROM rules WHERE active = 1 ORDER BY priority, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ledger.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.attachParts(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *RuleRepo) attachParts(ctx context.Context, rule *ledger.Rule) error {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, rule_id, account, tenant_id, kind, value_cents, value_percent, note
	FROM rule_parts WHERE rule_id = ? ORDER BY created_at, id`, rule.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p ledger.RulePart
		var tenant sql.NullString
		var kind string
		if err := rows.Scan(&p.ID, &p.RuleID, &p.Account, &tenant, &kind, &p.ValueCents, &p.ValuePercent, &p.Note); err != nil {
			return err
		}
		if tenant.Valid {
			p.TenantID = &tenant.String
		}
		p.Kind = ledger.PartKind(kind)
		rule.Parts = append(rule.Parts, p)
	}
	return rows.Err()
}

func scanRule(row scanner) (ledger.Rule, error) {
	var rule ledger.Rule
	var minAmount, maxAmount sql.NullInt64
	var sign string
	if err := row.Scan(&rule.ID, &rule.Name, &rule.MatchLike, &rule.MatchRegex,
		&minAmount, &maxAmount, &sign, &rule.Priority, &rule.Active); err != nil {
		return ledger.Rule{}, err
	}
	if minAmount.Valid {
		rule.MinCents = &minAmount.Int64
	}
	if maxAmount.Valid {
		rule.MaxCents = &maxAmount.Int64
	}
	rule.Sign = ledger.Sign(sign)
	return rule, nil
}

// scanner handles nullable fields for both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

package patterns

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) GetByCompany(ctx context.Context, companyID string) (Pattern, error) {
	const head = `SELECT id, company_id, created_at FROM patterns WHERE company_id = $1 LIMIT 1`
	var pattern Pattern
	err := r.DB.QueryRowContext(ctx, head, companyID).Scan(&pattern.ID, &pattern.CompanyID, &pattern.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Pattern{}, ErrNotFound
		}
		return Pattern{}, err
	}

	const items = `
SELECT id, major_class, call_result_id, talk_script_url
FROM pattern_items
WHERE pattern_id = $1
ORDER BY major_class`
	rows, err := r.DB.QueryContext(ctx, items, pattern.ID)
	if err != nil {
		return Pattern{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var item PatternItem
		var callResultID, talkScript sql.NullString
		if err := rows.Scan(&item.ID, &item.MajorClass, &callResultID, &talkScript); err != nil {
			return Pattern{}, err
		}
		item.CallResultID = callResultID.String
		item.TalkScriptURL = talkScript.String
		pattern.Items = append(pattern.Items, item)
	}
	return pattern, rows.Err()
}

func (r *PGRepo) Upsert(ctx context.Context, pattern Pattern) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin pattern upsert: %w", err)
	}
	defer tx.Rollback()

	const upsert = `
INSERT INTO patterns (id, company_id, created_at)
VALUES ($1, $2, now())
ON CONFLICT (company_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, upsert, pattern.ID, pattern.CompanyID); err != nil {
		return err
	}

	var patternID string
	const lookup = `SELECT id FROM patterns WHERE company_id = $1`
	if err := tx.QueryRowContext(ctx, lookup, pattern.CompanyID).Scan(&patternID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM pattern_items WHERE pattern_id = $1`, patternID); err != nil {
		return err
	}
	const insertItem = `
INSERT INTO pattern_items (id, pattern_id, major_class, call_result_id, talk_script_url)
VALUES ($1, $2, $3, $4, $5)`
	for _, item := range pattern.Items {
		_, err := tx.ExecContext(ctx, insertItem,
			item.ID,
			patternID,
			item.MajorClass,
			nullable(item.CallResultID),
			nullable(item.TalkScriptURL),
		)
		if err != nil {
			return fmt.Errorf("insert pattern item %q: %w", item.MajorClass, err)
		}
	}
	return tx.Commit()
}

type PGCallResultsRepo struct {
	DB *sql.DB
}

func (r *PGCallResultsRepo) Create(ctx context.Context, result CallResult) error {
	const query = `INSERT INTO call_results (id, name, results) VALUES ($1, $2, $3)`
	_, err := r.DB.ExecContext(ctx, query, result.ID, result.Name, result.Results)
	return err
}

func (r *PGCallResultsRepo) GetByID(ctx context.Context, id string) (CallResult, error) {
	const query = `SELECT id, name, results FROM call_results WHERE id = $1 LIMIT 1`
	var result CallResult
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&result.ID, &result.Name, &result.Results)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CallResult{}, ErrNotFound
		}
		return CallResult{}, err
	}
	return result, nil
}

func (r *PGCallResultsRepo) List(ctx context.Context) ([]CallResult, error) {
	const query = `SELECT id, name, results FROM call_results ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CallResult
	for rows.Next() {
		var result CallResult
		if err := rows.Scan(&result.ID, &result.Name, &result.Results); err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, rows.Err()
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

package companies

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, company Company) error {
	const query = `INSERT INTO companies (id, name, created_at) VALUES ($1, $2, now())`
	_, err := r.DB.ExecContext(ctx, query, company.ID, company.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Company, error) {
	const query = `SELECT id, name, created_at FROM companies WHERE id = $1 LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) GetByName(ctx context.Context, name string) (Company, error) {
	const query = `SELECT id, name, created_at FROM companies WHERE name = $1 LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, name))
}

func (r *PGRepo) scanOne(row *sql.Row) (Company, error) {
	var company Company
	if err := row.Scan(&company.ID, &company.Name, &company.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	return company, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Company, error) {
	const query = `SELECT id, name, created_at FROM companies ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var company Company
		if err := rows.Scan(&company.ID, &company.Name, &company.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, company)
	}
	return out, rows.Err()
}

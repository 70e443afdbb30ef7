package staff

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, member Member) error {
	const query = `
INSERT INTO staff (id, email, full_name, given_name, family_name, picture_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  given_name = EXCLUDED.given_name,
  family_name = EXCLUDED.family_name,
  picture_url = EXCLUDED.picture_url,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		member.ID,
		member.Email,
		nullableString(member.FullName),
		nullableString(member.GivenName),
		nullableString(member.FamilyName),
		nullableString(member.PictureURL),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, staffID string) (Member, error) {
	const query = `
SELECT id, email, full_name, given_name, family_name, picture_url, created_at, updated_at
FROM staff
WHERE id = $1
LIMIT 1`
	var member Member
	var fullName sql.NullString
	var givenName sql.NullString
	var familyName sql.NullString
	var pictureURL sql.NullString
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, staffID).Scan(
		&member.ID,
		&member.Email,
		&fullName,
		&givenName,
		&familyName,
		&pictureURL,
		&member.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}
	if fullName.Valid {
		member.FullName = fullName.String
	}
	if givenName.Valid {
		member.GivenName = givenName.String
	}
	if familyName.Valid {
		member.FamilyName = familyName.String
	}
	if pictureURL.Valid {
		member.PictureURL = pictureURL.String
	}
	if updatedAt.Valid {
		member.UpdatedAt = updatedAt.Time
	} else {
		member.UpdatedAt = time.Now().UTC()
	}
	return member, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

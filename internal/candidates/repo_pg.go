package candidates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"callportal-backend/internal/schedule"
)

type PGRepo struct {
	DB *sql.DB
}

const candidateColumns = `
id, company_id, data_id, name, full_name, phone_number, grad_year,
major_class, minor_class, entry_route, university, faculty, department,
first_call_date, first_call_slot, first_call_note,
second_call_date, second_call_slot, second_call_note,
third_call_date, third_call_slot, third_call_note,
needs_followup, needs_review, resolved, before_notes, after_notes,
first_entry_date, created_at, locked_by, locked_at`

func (r *PGRepo) Create(ctx context.Context, cand Candidate) error {
	_, err := r.DB.ExecContext(ctx, insertQuery, insertArgs(cand)...)
	return err
}

// CreateBatch inserts every row inside one transaction so a failure
// leaves nothing behind.
func (r *PGRepo) CreateBatch(ctx context.Context, cands []Candidate) error {
	if len(cands) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	for _, cand := range cands {
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs(cand)...); err != nil {
			return fmt.Errorf("insert candidate %s: %w", cand.ID, err)
		}
	}
	return tx.Commit()
}

const insertQuery = `
INSERT INTO candidates (
  id, company_id, data_id, name, full_name, phone_number, grad_year,
  major_class, minor_class, entry_route, university, faculty, department,
  first_call_date, first_call_slot, first_call_note,
  second_call_date, second_call_slot, second_call_note,
  third_call_date, third_call_slot, third_call_note,
  needs_followup, needs_review, resolved, before_notes, after_notes,
  first_entry_date, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,now())`

func insertArgs(cand Candidate) []any {
	return []any{
		cand.ID,
		cand.CompanyID,
		nullableString(cand.DataID),
		nullableString(cand.Name),
		nullableString(cand.FullName),
		nullableString(cand.PhoneNumber),
		cand.GradYear,
		nullableString(cand.MajorClass),
		nullableString(cand.MinorClass),
		nullableString(cand.EntryRoute),
		nullableString(cand.University),
		nullableString(cand.Faculty),
		nullableString(cand.Department),
		cand.FirstCallDate,
		nullableString(string(cand.FirstCallSlot)),
		nullableString(cand.FirstCallNote),
		cand.SecondCallDate,
		nullableString(string(cand.SecondCallSlot)),
		nullableString(cand.SecondCallNote),
		cand.ThirdCallDate,
		nullableString(string(cand.ThirdCallSlot)),
		nullableString(cand.ThirdCallNote),
		cand.NeedsFollowup,
		cand.NeedsReview,
		cand.Resolved,
		nullableString(cand.BeforeNotes),
		nullableString(cand.AfterNotes),
		cand.FirstEntryDate,
	}
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1 LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, id)
	cand, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Candidate{}, ErrNotFound
		}
		return Candidate{}, err
	}
	return cand, nil
}

// Update writes the editable fields only. Identity columns and the lock
// pair are deliberately left out.
func (r *PGRepo) Update(ctx context.Context, cand Candidate) error {
	const query = `
UPDATE candidates SET
  first_call_date = $2, first_call_slot = $3, first_call_note = $4,
  second_call_date = $5, second_call_slot = $6, second_call_note = $7,
  third_call_date = $8, third_call_slot = $9, third_call_note = $10,
  needs_followup = $11, needs_review = $12, resolved = $13,
  before_notes = $14, after_notes = $15
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		cand.ID,
		cand.FirstCallDate,
		nullableString(string(cand.FirstCallSlot)),
		nullableString(cand.FirstCallNote),
		cand.SecondCallDate,
		nullableString(string(cand.SecondCallSlot)),
		nullableString(cand.SecondCallNote),
		cand.ThirdCallDate,
		nullableString(string(cand.ThirdCallSlot)),
		nullableString(cand.ThirdCallNote),
		cand.NeedsFollowup,
		cand.NeedsReview,
		cand.Resolved,
		nullableString(cand.BeforeNotes),
		nullableString(cand.AfterNotes),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateLock is the field-scoped partial write backing the soft lock.
func (r *PGRepo) UpdateLock(ctx context.Context, id string, lockedBy string, lockedAt *time.Time) error {
	const query = `UPDATE candidates SET locked_by = $2, locked_at = $3 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, nullableString(lockedBy), lockedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List composes WHERE predicates from the filter, in the order the
// filter declares them.
func (r *PGRepo) List(ctx context.Context, filter Filter) ([]Candidate, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.CompanyID != "" {
		where = append(where, "company_id = "+arg(filter.CompanyID))
	}
	if filter.CallDate != nil {
		p := arg(*filter.CallDate)
		where = append(where, fmt.Sprintf("(first_call_date = %[1]s OR second_call_date = %[1]s OR third_call_date = %[1]s)", p))
	}
	switch filter.Progress {
	case ProgressFirst:
		where = append(where, "first_call_date IS NULL", "resolved = false")
	case ProgressSecond:
		where = append(where, "first_call_date IS NOT NULL", "second_call_date IS NULL", "resolved = false")
	case ProgressThird:
		where = append(where, "first_call_date IS NOT NULL", "second_call_date IS NOT NULL", "third_call_date IS NULL", "resolved = false")
	case ProgressExhausted:
		where = append(where, "first_call_date IS NOT NULL", "second_call_date IS NOT NULL", "third_call_date IS NOT NULL", "resolved = false")
	case ProgressResolvedBy:
		where = append(where, "resolved = true")
	}
	if filter.MajorClass != "" {
		where = append(where, "major_class = "+arg(filter.MajorClass))
	}
	if filter.MinorClass != "" {
		where = append(where, "minor_class = "+arg(filter.MinorClass))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		where = append(where, fmt.Sprintf("(name ILIKE %[1]s OR phone_number ILIKE %[1]s)", p))
	}
	if filter.Resolved != nil {
		where = append(where, "resolved = "+arg(*filter.Resolved))
	}

	query := `SELECT ` + candidateColumns + ` FROM candidates`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		cand, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cand)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (Candidate, error) {
	var (
		cand                               Candidate
		dataID, name, fullName, phone      sql.NullString
		gradYear                           sql.NullInt64
		majorClass, minorClass, entryRoute sql.NullString
		university, faculty, department    sql.NullString
		firstDate, secondDate, thirdDate   sql.NullTime
		firstSlot, secondSlot, thirdSlot   sql.NullString
		firstNote, secondNote, thirdNote   sql.NullString
		beforeNotes, afterNotes, lockedBy  sql.NullString
		firstEntryDate, lockedAt           sql.NullTime
	)
	err := row.Scan(
		&cand.ID,
		&cand.CompanyID,
		&dataID,
		&name,
		&fullName,
		&phone,
		&gradYear,
		&majorClass,
		&minorClass,
		&entryRoute,
		&university,
		&faculty,
		&department,
		&firstDate,
		&firstSlot,
		&firstNote,
		&secondDate,
		&secondSlot,
		&secondNote,
		&thirdDate,
		&thirdSlot,
		&thirdNote,
		&cand.NeedsFollowup,
		&cand.NeedsReview,
		&cand.Resolved,
		&beforeNotes,
		&afterNotes,
		&firstEntryDate,
		&cand.CreatedAt,
		&lockedBy,
		&lockedAt,
	)
	if err != nil {
		return Candidate{}, err
	}

	cand.DataID = dataID.String
	cand.Name = name.String
	cand.FullName = fullName.String
	cand.PhoneNumber = phone.String
	if gradYear.Valid {
		v := int(gradYear.Int64)
		cand.GradYear = &v
	}
	cand.MajorClass = majorClass.String
	cand.MinorClass = minorClass.String
	cand.EntryRoute = entryRoute.String
	cand.University = university.String
	cand.Faculty = faculty.String
	cand.Department = department.String
	cand.FirstCallDate = nullableTime(firstDate)
	cand.FirstCallSlot = schedule.TimeSlot(firstSlot.String)
	cand.FirstCallNote = firstNote.String
	cand.SecondCallDate = nullableTime(secondDate)
	cand.SecondCallSlot = schedule.TimeSlot(secondSlot.String)
	cand.SecondCallNote = secondNote.String
	cand.ThirdCallDate = nullableTime(thirdDate)
	cand.ThirdCallSlot = schedule.TimeSlot(thirdSlot.String)
	cand.ThirdCallNote = thirdNote.String
	cand.BeforeNotes = beforeNotes.String
	cand.AfterNotes = afterNotes.String
	cand.FirstEntryDate = nullableTime(firstEntryDate)
	cand.LockedBy = lockedBy.String
	cand.LockedAt = nullableTime(lockedAt)
	return cand, nil
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"callportal-backend/internal/candidates"
	"callportal-backend/internal/companies"
	"callportal-backend/internal/schedule"
	"callportal-backend/internal/shared/metrics"
	"callportal-backend/internal/shared/storage/object"
	"callportal-backend/internal/shared/telemetry"
)

const dateLayout = "2006-01-02"

// RowError reports the first invalid row of a batch. Row is the
// user-visible file row: the header is row 1, so the first data row
// reports as 2.
type RowError struct {
	Row    int
	Field  string
	Reason string
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}

// PatternSource lists the major classes registered for a company.
type PatternSource interface {
	MajorClasses(ctx context.Context, companyID string) ([]string, error)
}

// Service turns canonical-schema CSV batches into candidate records.
// A batch is all-or-nothing: the first invalid row aborts everything.
type Service struct {
	Candidates candidates.Repo
	Companies  companies.Repo
	Patterns   PatternSource
	Store      object.ObjectStore // optional raw-upload archive
}

// Import validates and persists one upload. Returns the number of
// created candidates.
func (s *Service) Import(ctx context.Context, companyID, fileName string, raw []byte) (int, error) {
	started := time.Now()
	count, err := s.runImport(ctx, companyID, fileName, raw)
	if err != nil {
		metrics.IncImportFailed()
		return 0, err
	}
	metrics.IncImportSucceeded()
	metrics.AddImportRows(count)
	metrics.ObserveImportDurationMs(float64(time.Since(started).Microseconds()) / 1000.0)
	return count, nil
}

func (s *Service) runImport(ctx context.Context, companyID, fileName string, raw []byte) (int, error) {
	company, err := s.Companies.GetByID(ctx, companyID)
	if err != nil {
		return 0, err
	}

	text, err := DecodeText(raw)
	if err != nil {
		return 0, err
	}

	rows, err := parseRows(text)
	if err != nil {
		return 0, err
	}

	registered, err := s.Patterns.MajorClasses(ctx, companyID)
	if err != nil {
		return 0, err
	}
	majorClasses := make(map[string]bool, len(registered))
	for _, mc := range registered {
		majorClasses[mc] = true
	}

	batch := make([]candidates.Candidate, 0, len(rows))
	for i, row := range rows {
		rowNo := i + 2 // header is row 1
		if err := validateRow(row, rowNo, company.Name, majorClasses); err != nil {
			return 0, err
		}
		batch = append(batch, buildCandidate(companyID, row))
	}

	if err := s.Candidates.CreateBatch(ctx, batch); err != nil {
		return 0, err
	}

	s.archive(ctx, companyID, fileName, raw)
	return len(batch), nil
}

// row is one data record keyed by canonical column.
type row map[string]string

func parseRows(text string) ([]row, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, &RowError{Row: 1, Reason: "file has no header row"}
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, key := range header {
		index[strings.TrimSpace(key)] = i
	}

	rows := make([]row, 0, len(records)-1)
	for _, record := range records[1:] {
		r := make(row, len(Columns))
		for _, col := range Columns {
			pos, ok := index[col.Key]
			if !ok || pos >= len(record) {
				continue
			}
			r[col.Key] = strings.TrimSpace(record[pos])
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func validateRow(r row, rowNo int, companyName string, majorClasses map[string]bool) error {
	if r["company"] != companyName {
		return &RowError{Row: rowNo, Field: "company", Reason: "does not match the selected company"}
	}
	if !majorClasses[r["major_class"]] {
		return &RowError{Row: rowNo, Field: "major_class", Reason: fmt.Sprintf("%q is not registered in the company pattern", r["major_class"])}
	}
	for _, col := range Columns {
		val := r[col.Key]
		if col.Required && val == "" {
			return &RowError{Row: rowNo, Field: col.Key, Reason: "must not be empty"}
		}
		if val == "" {
			continue
		}
		switch col.Kind {
		case KindInt:
			if _, err := strconv.Atoi(val); err != nil {
				return &RowError{Row: rowNo, Field: col.Key, Reason: "must be an integer"}
			}
		case KindDate:
			if _, err := time.Parse(dateLayout, val); err != nil {
				return &RowError{Row: rowNo, Field: col.Key, Reason: "must be a YYYY-MM-DD date"}
			}
		}
	}
	return nil
}

// buildCandidate assumes validateRow passed.
func buildCandidate(companyID string, r row) candidates.Candidate {
	cand := candidates.Candidate{
		ID:             uuid.NewString(),
		CompanyID:      companyID,
		DataID:         r["data_id"],
		Name:           r["name"],
		FullName:       r["full_name"],
		PhoneNumber:    r["phone_number"],
		MajorClass:     r["major_class"],
		MinorClass:     r["minor_class"],
		EntryRoute:     r["entry_route"],
		University:     r["university"],
		Faculty:        r["faculty"],
		Department:     r["department"],
		FirstCallSlot:  schedule.TimeSlot(r["first_call_slot"]),
		FirstCallNote:  r["first_call_note"],
		SecondCallSlot: schedule.TimeSlot(r["second_call_slot"]),
		SecondCallNote: r["second_call_note"],
		ThirdCallSlot:  schedule.TimeSlot(r["third_call_slot"]),
		ThirdCallNote:  r["third_call_note"],
		NeedsFollowup:  parseBool(r["needs_followup"]),
		NeedsReview:    parseBool(r["needs_review"]),
		Resolved:       parseBool(r["resolved"]),
		BeforeNotes:    r["before_notes"],
		AfterNotes:     r["after_notes"],
	}
	if v, err := strconv.Atoi(r["grad_year"]); err == nil {
		cand.GradYear = &v
	}
	cand.FirstCallDate = parseDate(r["first_call_date"])
	cand.SecondCallDate = parseDate(r["second_call_date"])
	cand.ThirdCallDate = parseDate(r["third_call_date"])
	cand.FirstEntryDate = parseDate(r["first_entry_date"])
	return cand
}

func parseBool(val string) bool {
	return strings.EqualFold(val, "true") || val == "1"
}

func parseDate(val string) *time.Time {
	if val == "" {
		return nil
	}
	d, err := time.Parse(dateLayout, val)
	if err != nil {
		return nil
	}
	return &d
}

// archive keeps the raw upload for audit. Best-effort: a storage
// failure never fails an import that already committed.
func (s *Service) archive(ctx context.Context, companyID, fileName string, raw []byte) {
	if s.Store == nil {
		return
	}
	key, _, _, err := s.Store.Save(ctx, companyID, fileName, bytes.NewReader(raw))
	if err != nil {
		telemetry.Error("importer.archive", map[string]any{
			"company_id": companyID,
			"file_name":  fileName,
			"error":      err.Error(),
		})
		return
	}
	telemetry.Info("importer.archive", map[string]any{
		"company_id":  companyID,
		"storage_key": key,
	})
}

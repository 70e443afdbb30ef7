package importer

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"callportal-backend/internal/candidates"
)

// TemplateCSV builds the canonical-schema template for a company: the
// header row plus one sample row carrying the company name. CP932
// encoded for the spreadsheet tooling that fills it in.
func TemplateCSV(companyName string) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write(Keys())
	sample := make([]string, len(Columns))
	sample[0] = companyName
	_ = w.Write(sample)
	w.Flush()

	return EncodeCP932(buf.String())
}

// ExportCSV renders candidates back into the canonical schema, CP932
// encoded. The round-trip matches what Import accepts.
func ExportCSV(companyName string, cands []candidates.Candidate) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write(Keys())
	for _, cand := range cands {
		_ = w.Write(exportRow(companyName, cand))
	}
	w.Flush()

	return EncodeCP932(buf.String())
}

func exportRow(companyName string, cand candidates.Candidate) []string {
	gradYear := ""
	if cand.GradYear != nil {
		gradYear = strconv.Itoa(*cand.GradYear)
	}
	return []string{
		companyName,
		cand.Name,
		cand.PhoneNumber,
		cand.EntryRoute,
		cand.DataID,
		gradYear,
		cand.MajorClass,
		cand.MinorClass,
		csvDate(cand.FirstCallDate),
		string(cand.FirstCallSlot),
		cand.FirstCallNote,
		csvDate(cand.SecondCallDate),
		string(cand.SecondCallSlot),
		cand.SecondCallNote,
		csvDate(cand.ThirdCallDate),
		string(cand.ThirdCallSlot),
		cand.ThirdCallNote,
		csvBool(cand.NeedsFollowup),
		csvBool(cand.NeedsReview),
		csvBool(cand.Resolved),
		cand.BeforeNotes,
		cand.AfterNotes,
		cand.FullName,
		cand.University,
		cand.Faculty,
		cand.Department,
		csvDate(cand.FirstEntryDate),
	}
}

func csvDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func csvBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

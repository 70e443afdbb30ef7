package candidates

import (
	"time"

	"callportal-backend/internal/schedule"
)

// Candidate is one student record in an outbound-call campaign. The three
// attempt slots mirror the canonical import schema; reads assume they are
// filled in order and writes enforce it.
type Candidate struct {
	ID        string
	CompanyID string

	DataID      string
	Name        string // kana reading used on the phone
	FullName    string
	PhoneNumber string
	GradYear    *int
	MajorClass  string
	MinorClass  string
	EntryRoute  string
	University  string
	Faculty     string
	Department  string

	FirstCallDate  *time.Time
	FirstCallSlot  schedule.TimeSlot
	FirstCallNote  string
	SecondCallDate *time.Time
	SecondCallSlot schedule.TimeSlot
	SecondCallNote string
	ThirdCallDate  *time.Time
	ThirdCallSlot  schedule.TimeSlot
	ThirdCallNote  string

	NeedsFollowup bool
	NeedsReview   bool
	Resolved      bool
	BeforeNotes   string
	AfterNotes    string

	FirstEntryDate *time.Time
	CreatedAt      time.Time

	// Soft edit lock. LockedBy is an opaque staff token; LockedAt is the
	// last acquisition or keepalive instant.
	LockedBy string
	LockedAt *time.Time
}

// Progress projects the attempt fields into the scheduling domain.
func (c Candidate) Progress() schedule.Progress {
	return schedule.Progress{
		FirstDate:  c.FirstCallDate,
		FirstSlot:  c.FirstCallSlot,
		SecondDate: c.SecondCallDate,
		SecondSlot: c.SecondCallSlot,
		ThirdDate:  c.ThirdCallDate,
		Resolved:   c.Resolved,
	}
}

// Stage is the derived call progress state.
func (c Candidate) Stage() schedule.Stage {
	return c.Progress().Stage()
}

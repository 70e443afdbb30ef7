package candidates

import (
	"time"

	"callportal-backend/internal/schedule"
)

// SlotCounts buckets candidates by the time-of-day slot their next call
// should target.
type SlotCounts struct {
	Morning int `json:"morning"`
	Noon    int `json:"noon"`
	Evening int `json:"evening"`
}

func (s *SlotCounts) add(slot schedule.TimeSlot) {
	switch slot {
	case schedule.SlotMorning:
		s.Morning++
	case schedule.SlotNoon:
		s.Noon++
	case schedule.SlotEvening:
		s.Evening++
	}
}

// CompanySummary is the per-company dashboard projection for one
// selected date. Resolved candidates are excluded from every count.
type CompanySummary struct {
	CompanyID     string     `json:"companyId"`
	Date          string     `json:"date"`
	CalledOnDate  int        `json:"calledOnDate"`
	NeedsFollowup int        `json:"needsFollowup"`
	NeedsReview   int        `json:"needsReview"`
	NotStarted    int        `json:"notStarted"`
	SecondCall    SlotCounts `json:"secondCall"`
	ThirdCall     SlotCounts `json:"thirdCall"`
}

// Summarize computes the dashboard counts over the given candidates.
// date selects the "called on" column; today gates the second/third
// eligibility buckets. Pure: a malformed record contributes nothing to
// the slot buckets but never stops the aggregation.
func Summarize(companyID string, cands []Candidate, date, today time.Time) CompanySummary {
	sum := CompanySummary{
		CompanyID: companyID,
		Date:      date.Format("2006-01-02"),
	}
	for _, cand := range cands {
		if cand.Resolved {
			continue
		}
		p := cand.Progress()

		if p.CalledOn(date) {
			sum.CalledOnDate++
		}
		if cand.NeedsFollowup && !cand.NeedsReview {
			sum.NeedsFollowup++
		}
		if cand.NeedsReview {
			sum.NeedsReview++
		}
		if cand.FirstCallDate == nil {
			sum.NotStarted++
		}

		switch {
		case p.EligibleForSecond(today):
			if slot, ok := p.NextSlot(); ok {
				sum.SecondCall.add(slot)
			}
		case p.EligibleForThird(today):
			if slot, ok := p.NextSlot(); ok {
				sum.ThirdCall.add(slot)
			}
		}
	}
	return sum
}

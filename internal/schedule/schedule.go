// Package schedule derives a candidate's call stage and the time-of-day
// slot the next call attempt should target. Everything here is a pure
// function of the recorded attempt fields; nothing is stored.
package schedule

import "time"

// TimeSlot is the time-of-day category a call attempt is scheduled into.
type TimeSlot string

const (
	SlotMorning TimeSlot = "morning" // 9:00-12:00
	SlotNoon    TimeSlot = "noon"    // 12:00-15:00
	SlotEvening TimeSlot = "evening" // 15:00-18:00
)

// cycle is the fixed rotation order. Evening wraps back to morning.
var cycle = [3]TimeSlot{SlotMorning, SlotNoon, SlotEvening}

// Slots returns the three categories in rotation order.
func Slots() []TimeSlot {
	return []TimeSlot{SlotMorning, SlotNoon, SlotEvening}
}

// Valid reports whether s is one of the three known categories.
func (s TimeSlot) Valid() bool {
	switch s {
	case SlotMorning, SlotNoon, SlotEvening:
		return true
	}
	return false
}

// NextAfter returns the slot that follows prev in the rotation.
// ok is false when prev is not a known category; callers must treat
// that as "no recommendation", never as an error.
func NextAfter(prev TimeSlot) (TimeSlot, bool) {
	for i, s := range cycle {
		if s == prev {
			return cycle[(i+1)%3], true
		}
	}
	return "", false
}

// NextAfterTwo returns the slot for the third attempt given the first
// two attempts' slots. Two distinct priors leave exactly one unused
// category, which is the answer. Identical priors fall back to the
// rotation applied to the more recent one.
func NextAfterTwo(first, second TimeSlot) (TimeSlot, bool) {
	if first != second && first.Valid() && second.Valid() {
		for _, s := range cycle {
			if s != first && s != second {
				return s, true
			}
		}
	}
	return NextAfter(second)
}

// Stage is the derived call progress of a candidate.
type Stage string

const (
	StageNotStarted     Stage = "not_started"
	StageAwaitingSecond Stage = "awaiting_call_2"
	StageAwaitingThird  Stage = "awaiting_call_3"
	StageExhausted      Stage = "exhausted"
	StageResolved       Stage = "resolved"
)

// Progress holds the recorded attempt fields a stage derivation reads.
// Attempts are assumed filled in order: attempt N has a date only when
// attempt N-1 does.
type Progress struct {
	FirstDate  *time.Time
	FirstSlot  TimeSlot
	SecondDate *time.Time
	SecondSlot TimeSlot
	ThirdDate  *time.Time
	Resolved   bool
}

// Stage derives the current stage. Resolved wins over everything,
// including inconsistent attempt fields, so a malformed record can
// never abort a batch computation.
func (p Progress) Stage() Stage {
	switch {
	case p.Resolved:
		return StageResolved
	case p.FirstDate == nil:
		return StageNotStarted
	case p.SecondDate == nil:
		return StageAwaitingSecond
	case p.ThirdDate == nil:
		return StageAwaitingThird
	default:
		return StageExhausted
	}
}

// NextAttempt returns the attempt number (1..3) due next, or 0 when the
// candidate is resolved or has exhausted all attempts.
func (p Progress) NextAttempt() int {
	switch p.Stage() {
	case StageNotStarted:
		return 1
	case StageAwaitingSecond:
		return 2
	case StageAwaitingThird:
		return 3
	}
	return 0
}

// NextSlot recommends the time-of-day slot for the next due attempt.
// The first attempt has no prior to rotate from, and unknown stored
// slots yield no recommendation.
func (p Progress) NextSlot() (TimeSlot, bool) {
	switch p.Stage() {
	case StageAwaitingSecond:
		return NextAfter(p.FirstSlot)
	case StageAwaitingThird:
		return NextAfterTwo(p.FirstSlot, p.SecondSlot)
	}
	return "", false
}

// EligibleForSecond reports whether the candidate belongs in a
// second-attempt scheduling bucket on the given day: first attempt
// strictly before today, second attempt unset, not resolved. The
// comparison is calendar-date granularity, so a first call made earlier
// today does not qualify.
func (p Progress) EligibleForSecond(today time.Time) bool {
	return !p.Resolved &&
		p.FirstDate != nil &&
		p.SecondDate == nil &&
		dayBefore(*p.FirstDate, today)
}

// EligibleForThird is the same gate applied to the third attempt
// relative to the second attempt's date.
func (p Progress) EligibleForThird(today time.Time) bool {
	return !p.Resolved &&
		p.FirstDate != nil &&
		p.SecondDate != nil &&
		p.ThirdDate == nil &&
		dayBefore(*p.SecondDate, today)
}

// CalledOn reports whether any attempt date falls on the given day.
func (p Progress) CalledOn(day time.Time) bool {
	return sameDay(p.FirstDate, day) || sameDay(p.SecondDate, day) || sameDay(p.ThirdDate, day)
}

func sameDay(t *time.Time, day time.Time) bool {
	if t == nil {
		return false
	}
	ay, am, ad := t.Date()
	by, bm, bd := day.Date()
	return ay == by && am == bm && ad == bd
}

// dayBefore compares calendar dates, not instants.
func dayBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

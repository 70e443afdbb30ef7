package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestNextAfterRotation(t *testing.T) {
	cases := []struct {
		prev TimeSlot
		want TimeSlot
	}{
		{SlotMorning, SlotNoon},
		{SlotNoon, SlotEvening},
		{SlotEvening, SlotMorning},
	}
	for _, tc := range cases {
		got, ok := NextAfter(tc.prev)
		if !ok {
			t.Fatalf("NextAfter(%s): not ok", tc.prev)
		}
		if got != tc.want {
			t.Fatalf("NextAfter(%s) = %s, want %s", tc.prev, got, tc.want)
		}
	}
}

func TestNextAfterUnknownSlot(t *testing.T) {
	if _, ok := NextAfter("midnight"); ok {
		t.Fatalf("expected no recommendation for unknown slot")
	}
	if _, ok := NextAfter(""); ok {
		t.Fatalf("expected no recommendation for empty slot")
	}
}

func TestNextAfterTwoDistinctPriors(t *testing.T) {
	cases := []struct {
		first, second, want TimeSlot
	}{
		{SlotMorning, SlotNoon, SlotEvening},
		{SlotNoon, SlotMorning, SlotEvening},
		{SlotMorning, SlotEvening, SlotNoon},
		{SlotEvening, SlotMorning, SlotNoon},
		{SlotNoon, SlotEvening, SlotMorning},
		{SlotEvening, SlotNoon, SlotMorning},
	}
	for _, tc := range cases {
		got, ok := NextAfterTwo(tc.first, tc.second)
		if !ok {
			t.Fatalf("NextAfterTwo(%s,%s): not ok", tc.first, tc.second)
		}
		if got != tc.want {
			t.Fatalf("NextAfterTwo(%s,%s) = %s, want %s", tc.first, tc.second, got, tc.want)
		}
	}
}

func TestNextAfterTwoSamePriorFallsBackToRotation(t *testing.T) {
	for _, slot := range Slots() {
		fromTwo, ok := NextAfterTwo(slot, slot)
		if !ok {
			t.Fatalf("NextAfterTwo(%s,%s): not ok", slot, slot)
		}
		fromOne, _ := NextAfter(slot)
		if fromTwo != fromOne {
			t.Fatalf("NextAfterTwo(%s,%s) = %s, want single-prior result %s", slot, slot, fromTwo, fromOne)
		}
	}
}

func TestNextAfterTwoUnknownSecond(t *testing.T) {
	if _, ok := NextAfterTwo(SlotMorning, "brunch"); ok {
		t.Fatalf("expected no recommendation when second slot is unknown")
	}
}

func TestStageDerivation(t *testing.T) {
	d := date(2024, time.January, 10)
	cases := []struct {
		name string
		p    Progress
		want Stage
	}{
		{"no attempts", Progress{}, StageNotStarted},
		{"first done", Progress{FirstDate: d}, StageAwaitingSecond},
		{"two done", Progress{FirstDate: d, SecondDate: d}, StageAwaitingThird},
		{"all done", Progress{FirstDate: d, SecondDate: d, ThirdDate: d}, StageExhausted},
		{"resolved wins", Progress{FirstDate: d, Resolved: true}, StageResolved},
		{"resolved with no attempts", Progress{Resolved: true}, StageResolved},
	}
	for _, tc := range cases {
		if got := tc.p.Stage(); got != tc.want {
			t.Fatalf("%s: Stage() = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestNextSlotPerStage(t *testing.T) {
	d := date(2024, time.January, 10)

	p := Progress{FirstDate: d, FirstSlot: SlotEvening}
	if got, ok := p.NextSlot(); !ok || got != SlotMorning {
		t.Fatalf("awaiting second: got %s ok=%v, want morning", got, ok)
	}

	p = Progress{FirstDate: d, FirstSlot: SlotMorning, SecondDate: d, SecondSlot: SlotEvening}
	if got, ok := p.NextSlot(); !ok || got != SlotNoon {
		t.Fatalf("awaiting third: got %s ok=%v, want noon", got, ok)
	}

	// Malformed stored value degrades to no recommendation.
	p = Progress{FirstDate: d, FirstSlot: "late night"}
	if _, ok := p.NextSlot(); ok {
		t.Fatalf("expected no recommendation for malformed slot")
	}

	// No recommendation before the first attempt or after the third.
	if _, ok := (Progress{}).NextSlot(); ok {
		t.Fatalf("expected no recommendation before first attempt")
	}
	p = Progress{FirstDate: d, SecondDate: d, ThirdDate: d}
	if _, ok := p.NextSlot(); ok {
		t.Fatalf("expected no recommendation when exhausted")
	}
	if (Progress{Resolved: true}).NextAttempt() != 0 {
		t.Fatalf("resolved candidate must have no next attempt")
	}
}

func TestEligibleForSecondIsStrictlyBeforeToday(t *testing.T) {
	p := Progress{FirstDate: date(2024, time.January, 1), FirstSlot: SlotMorning}

	today := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	if !p.EligibleForSecond(today) {
		t.Fatalf("first call on Jan 1 must be eligible on Jan 2")
	}

	sameDay := time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC)
	if p.EligibleForSecond(sameDay) {
		t.Fatalf("first call today must not be eligible yet")
	}

	p.Resolved = true
	if p.EligibleForSecond(today) {
		t.Fatalf("resolved candidate must never be eligible")
	}
}

func TestEligibleForThird(t *testing.T) {
	today := time.Date(2024, time.February, 10, 9, 0, 0, 0, time.UTC)
	p := Progress{
		FirstDate:  date(2024, time.February, 1),
		SecondDate: date(2024, time.February, 9),
	}
	if !p.EligibleForThird(today) {
		t.Fatalf("second call yesterday must make third eligible")
	}

	p.SecondDate = date(2024, time.February, 10)
	if p.EligibleForThird(today) {
		t.Fatalf("second call today must not be eligible")
	}

	p.SecondDate = nil
	if p.EligibleForThird(today) {
		t.Fatalf("third attempt needs a second attempt first")
	}

	p = Progress{
		FirstDate:  date(2024, time.February, 1),
		SecondDate: date(2024, time.February, 2),
		ThirdDate:  date(2024, time.February, 3),
	}
	if p.EligibleForThird(today) {
		t.Fatalf("third already made, not eligible")
	}
}

func TestCalledOn(t *testing.T) {
	p := Progress{
		FirstDate:  date(2024, time.March, 1),
		SecondDate: date(2024, time.March, 5),
	}
	if !p.CalledOn(time.Date(2024, time.March, 5, 15, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected match on second call date")
	}
	if p.CalledOn(time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected match")
	}
}

package model

import (
	"testing"
	"time"

	"innkeep/pkg/daterange"
)

func TestDefaultStatus(t *testing.T) {
	if DefaultStatus() != StatusPreliminary {
		t.Errorf("DefaultStatus() = %s, want preliminary", DefaultStatus())
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses() {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	for _, s := range []Status{"past", "cancelled", "", "PRELIMINARY"} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestDisplayMetaPastOverrides(t *testing.T) {
	for _, s := range Statuses() {
		meta := DisplayMeta(s, true)
		if meta.LabelKey != "reservationStatus.past" {
			t.Errorf("DisplayMeta(%s, past) label = %s, want past", s, meta.LabelKey)
		}
	}
}

func TestDisplayMetaKnownStatuses(t *testing.T) {
	tests := []struct {
		status Status
		label  string
		color  string
	}{
		{StatusPreliminary, "reservationStatus.preliminary", "#C36F2B"},
		{StatusDepositPaid, "reservationStatus.depositPaid", "#3D7A5A"},
		{StatusConfirmed, "reservationStatus.confirmed", "#1F3C4A"},
		{StatusBooking, "reservationStatus.booking", "#1E746E"},
	}
	for _, tt := range tests {
		meta := DisplayMeta(tt.status, false)
		if meta.LabelKey != tt.label {
			t.Errorf("DisplayMeta(%s) label = %s, want %s", tt.status, meta.LabelKey, tt.label)
		}
		if meta.Color != tt.color {
			t.Errorf("DisplayMeta(%s) color = %s, want %s", tt.status, meta.Color, tt.color)
		}
	}
}

func TestDisplayMetaUnknownFallsBack(t *testing.T) {
	meta := DisplayMeta(Status("garbage"), false)
	if meta.LabelKey != "reservationStatus.preliminary" {
		t.Errorf("unknown status label = %s, want preliminary fallback", meta.LabelKey)
	}
}

func TestReservationIsPast(t *testing.T) {
	today := daterange.NewDate(2024, time.June, 15)
	res := &Reservation{
		StartDate: daterange.NewDate(2024, time.June, 10),
		EndDate:   daterange.NewDate(2024, time.June, 14),
	}
	if !res.IsPast(today) {
		t.Error("reservation ending yesterday should be past")
	}

	res.EndDate = daterange.NewDate(2024, time.June, 15)
	if res.IsPast(today) {
		t.Error("reservation ending today is not past")
	}
}

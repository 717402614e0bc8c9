package model

// Status is the persisted reservation state. It is a flat enum: the
// owner may set any status to any other status, there is no transition
// graph. "past" is deliberately absent — it is derived from the end
// date at read time and must never be written.
type Status string

const (
	StatusPreliminary Status = "preliminary"
	StatusDepositPaid Status = "deposit_paid"
	StatusConfirmed   Status = "confirmed"
	StatusBooking     Status = "booking"
)

// DefaultStatus is the initial status for newly created reservations.
func DefaultStatus() Status { return StatusPreliminary }

// Statuses lists every persistable status.
func Statuses() []Status {
	return []Status{StatusPreliminary, StatusDepositPaid, StatusConfirmed, StatusBooking}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPreliminary, StatusDepositPaid, StatusConfirmed, StatusBooking:
		return true
	}
	return false
}

// StatusMeta carries the display tokens the UI renders a status with.
type StatusMeta struct {
	LabelKey   string `json:"label_key"`
	Background string `json:"background"`
	Color      string `json:"color"`
}

var statusMeta = map[Status]StatusMeta{
	StatusPreliminary: {
		LabelKey:   "reservationStatus.preliminary",
		Background: "rgba(212, 152, 69, 0.15)",
		Color:      "#C36F2B",
	},
	StatusDepositPaid: {
		LabelKey:   "reservationStatus.depositPaid",
		Background: "rgba(92, 164, 117, 0.18)",
		Color:      "#3D7A5A",
	},
	StatusConfirmed: {
		LabelKey:   "reservationStatus.confirmed",
		Background: "rgba(31, 60, 74, 0.18)",
		Color:      "#1F3C4A",
	},
	StatusBooking: {
		LabelKey:   "reservationStatus.booking",
		Background: "rgba(51, 180, 172, 0.18)",
		Color:      "#1E746E",
	},
}

var pastMeta = StatusMeta{
	LabelKey:   "reservationStatus.past",
	Background: "rgba(94, 79, 69, 0.16)",
	Color:      "#5E4F45",
}

// DisplayMeta resolves the display tokens for a status. The derived
// past label overrides every persisted status; unknown statuses fall
// back to preliminary.
func DisplayMeta(s Status, isPast bool) StatusMeta {
	if isPast {
		return pastMeta
	}
	if meta, ok := statusMeta[s]; ok {
		return meta
	}
	return statusMeta[StatusPreliminary]
}

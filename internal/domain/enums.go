// Closed enumerations used across the data model.
//
// These replace the implicit string unions of the intake forms with typed
// values. Every consumption site (validation, PDF rendering, notification
// formatting) switches exhaustively so that a new value shows up as a
// compile-time or validation failure instead of silently falling through
// to a default label.
package domain

// ContactMethod is how a lead prefers to be contacted.
type ContactMethod string

const (
	ContactEmail    ContactMethod = "email"
	ContactXDMs     ContactMethod = "x_dms"
	ContactTelegram ContactMethod = "telegram"
	ContactOther    ContactMethod = "other"
)

// Valid reports whether m is one of the closed set of contact methods.
func (m ContactMethod) Valid() bool {
	switch m {
	case ContactEmail, ContactXDMs, ContactTelegram, ContactOther:
		return true
	}
	return false
}

// Label returns the human-readable form used in notifications and UI.
func (m ContactMethod) Label() string {
	switch m {
	case ContactEmail:
		return "Email"
	case ContactXDMs:
		return "X DMs"
	case ContactTelegram:
		return "Telegram"
	case ContactOther:
		return "Other"
	}
	return string(m)
}

// GrowthPotential grades expected user growth.
type GrowthPotential string

const (
	GrowthLow      GrowthPotential = "Low"
	GrowthMedium   GrowthPotential = "Medium"
	GrowthHigh     GrowthPotential = "High"
	GrowthVeryHigh GrowthPotential = "Very High"
)

// Valid reports whether g is a known growth-potential grade.
func (g GrowthPotential) Valid() bool {
	switch g {
	case GrowthLow, GrowthMedium, GrowthHigh, GrowthVeryHigh:
		return true
	}
	return false
}

// MarketMaturity describes the lifecycle stage of the target market.
type MarketMaturity string

const (
	MaturityEmerging  MarketMaturity = "Emerging"
	MaturityGrowing   MarketMaturity = "Growing"
	MaturityMature    MarketMaturity = "Mature"
	MaturityDeclining MarketMaturity = "Declining"
)

// Valid reports whether m is a known maturity stage.
func (m MarketMaturity) Valid() bool {
	switch m {
	case MaturityEmerging, MaturityGrowing, MaturityMature, MaturityDeclining:
		return true
	}
	return false
}

// EntryBarrier grades how hard the market is to enter.
type EntryBarrier string

const (
	BarrierLow    EntryBarrier = "Low"
	BarrierMedium EntryBarrier = "Medium"
	BarrierHigh   EntryBarrier = "High"
)

// Valid reports whether b is a known entry-barrier grade.
func (b EntryBarrier) Valid() bool {
	switch b {
	case BarrierLow, BarrierMedium, BarrierHigh:
		return true
	}
	return false
}

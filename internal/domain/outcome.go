package domain

// MatchStatus is the outcome band of a fuzzy match.
type MatchStatus string

const (
	// MatchAccepted: score at or above the auto-accept threshold.
	MatchAccepted MatchStatus = "MATCHED"
	// MatchManualReview: score in the review band, routed to a bay.
	MatchManualReview MatchStatus = "MANUAL_REVIEW"
	// MatchUnmatched: terminal for companies.
	MatchUnmatched MatchStatus = "UNMATCHED"
	// MatchNewPerson: terminal for people; an unmatched person is new, not
	// an error.
	MatchNewPerson MatchStatus = "NEW_PERSON"
)

// IdentityStatus reports how complete a company identity snapshot is.
type IdentityStatus string

const (
	IdentityComplete IdentityStatus = "COMPLETE"
	IdentityPartial  IdentityStatus = "PARTIAL"
	IdentityMissing  IdentityStatus = "MISSING"
)

// Readiness is the computed capability of a company record to support
// downstream processing.
type Readiness string

const (
	ReadinessReady       Readiness = "READY"
	ReadinessPartial     Readiness = "PARTIAL"
	ReadinessNeedsReview Readiness = "NEEDS_REVIEW"
	ReadinessBlocked     Readiness = "BLOCKED"
)

// MovementType distinguishes what changed between two observations of the
// same slot.
type MovementType string

const (
	MovementNone          MovementType = "NONE"
	MovementCompanyChange MovementType = "COMPANY_CHANGE"
	MovementTitleChange   MovementType = "TITLE_CHANGE"
	// MovementUnknown: no prior observation to compare against.
	MovementUnknown MovementType = "UNKNOWN"
)

// Candidate is a transient scored match candidate, produced and consumed
// within a single matching call.
type Candidate struct {
	ID         string
	Name       string
	Normalized string
	Score      int
}

// Package adapters defines the contracts for every external lookup the
// engine consumes, plus the plumbing that keeps those calls bounded: per-call
// timeouts, optional rate limiting, ordered fallback chains, and cost
// accounting. Adapter calls are the engine's only suspension points.
package adapters

import "context"

// CallInfo reports the cost and provenance of one adapter call.
type CallInfo struct {
	// Cost in dollars charged by the vendor for this call.
	Cost float64
	// Source names the vendor or dataset that answered.
	Source string
}

// CompanyRecord is one candidate from an external company lookup.
type CompanyRecord struct {
	CompanyName string
	Domain      string
	Website     string
}

// PatternResult is a discovered email pattern for a domain.
type PatternResult struct {
	Pattern      string
	Domain       string
	Confidence   float64
	SampleEmails []string
}

// EmailResult is a found address with the vendor's confidence.
type EmailResult struct {
	Email      string
	Confidence float64
}

// VerificationStatus is the deliverability verdict for an address.
type VerificationStatus string

const (
	VerificationValid    VerificationStatus = "valid"
	VerificationCatchAll VerificationStatus = "catch_all"
	VerificationInvalid  VerificationStatus = "invalid"
	VerificationUnknown  VerificationStatus = "unknown"
)

// VerificationResult wraps a verification verdict.
type VerificationResult struct {
	Status VerificationStatus
}

// Profile is a person's current public profile.
type Profile struct {
	Title            string
	Company          string
	FullName         string
	PublicAccessible bool
}

// Employment is a person's current employment as reported by a lookup
// vendor.
type Employment struct {
	CurrentTitle   string
	CurrentCompany string
	Identifier     string
	History        []EmploymentRecord
}

// EmploymentRecord is one entry of an employment history.
type EmploymentRecord struct {
	Title   string
	Company string
	From    string
	To      string
}

// CompanyLookup resolves a raw query to candidate companies. Used only when
// local matching is inconclusive.
type CompanyLookup interface {
	LookupCompany(ctx context.Context, query string) ([]CompanyRecord, CallInfo, error)
}

// PatternDiscovery finds the email pattern for a domain.
type PatternDiscovery interface {
	DiscoverPattern(ctx context.Context, domain string) (PatternResult, CallInfo, error)
}

// EmailFinder produces an address for a person at a domain.
type EmailFinder interface {
	FindEmail(ctx context.Context, domain, first, last string) (EmailResult, CallInfo, error)
}

// EmailVerifier checks deliverability of an address.
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, email string) (VerificationResult, CallInfo, error)
}

// ProfileSource fetches a profile by a known identifier (a stored profile
// URL).
type ProfileSource interface {
	FetchProfile(ctx context.Context, identifier string) (Profile, CallInfo, error)
}

// EmploymentLookup resolves current employment by name and company when no
// identifier is known.
type EmploymentLookup interface {
	LookupEmployment(ctx context.Context, fullName, companyName, identifier string) (Employment, CallInfo, error)
}

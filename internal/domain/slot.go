package domain

import "fmt"

// SlotType is a named organizational role to be filled with a person within a
// company.
type SlotType string

const (
	SlotCEO      SlotType = "CEO"
	SlotCFO      SlotType = "CFO"
	SlotHR       SlotType = "HR"
	SlotBenefits SlotType = "BENEFITS"
)

// AllSlotTypes lists every slot a company is expected to fill. Fill rate is
// computed against this set.
var AllSlotTypes = []SlotType{SlotCEO, SlotCFO, SlotHR, SlotBenefits}

// ParseSlotType validates and returns a SlotType.
func ParseSlotType(s string) (SlotType, error) {
	switch SlotType(s) {
	case SlotCEO, SlotCFO, SlotHR, SlotBenefits:
		return SlotType(s), nil
	}
	return "", fmt.Errorf("unknown slot type: %s", s)
}

func (t SlotType) IsValid() bool {
	_, err := ParseSlotType(string(t))
	return err == nil
}

// SlotRow is the unit of work: one (company, slot, candidate person) triple.
// A row is owned by the pipeline processing it and is mutated in place by
// each agent stage in sequence; it is never shared across pipelines.
type SlotRow struct {
	ID       RowID
	SlotType SlotType

	// Company identity, resolved by the hub.
	CompanyName string
	CompanyID   CompanyID

	// Person identity.
	PersonName       string
	PersonID         PersonID
	LinkedInURL      string
	PublicAccessible bool

	// Contact.
	Email         string
	EmailPattern  string
	EmailVerified bool

	// Employment as last observed.
	CurrentTitle   string
	CurrentCompany string

	// Change tracking.
	MovementHash     string
	MovementDetected bool

	// Validity gates. CompanyValid gates pattern discovery and email
	// generation; PersonCompanyValid gates email generation. Both must hold
	// before an address is produced.
	CompanyValid        bool
	CompanyReason       string
	PersonCompanyValid  bool
	PersonCompanyScore  float64
	PersonCompanyReason string

	// EmailSkipReason records why email work was skipped for this row, when
	// it was.
	EmailSkipReason string

	// SlotComplete marks the row terminal.
	SlotComplete bool
}

// Validate checks the fields every stage requires. Missing company or person
// names are caller errors, not data-quality events.
func (r *SlotRow) Validate() error {
	if r == nil {
		return fmt.Errorf("slot row is required")
	}
	if r.ID.IsNil() {
		return fmt.Errorf("row id is required")
	}
	if !r.SlotType.IsValid() {
		return fmt.Errorf("invalid slot type %q", r.SlotType)
	}
	if r.CompanyName == "" {
		return fmt.Errorf("company name is required")
	}
	return nil
}

// CanonicalCompany is one entry of the read-only canonical company list a
// batch matches against.
type CanonicalCompany struct {
	ID           CompanyID
	Name         string
	Domain       string
	EmailPattern string
}

// CanonicalPerson is one entry of the read-only canonical person list,
// scoped to a company.
type CanonicalPerson struct {
	ID         PersonID
	CompanyID  CompanyID
	FullName   string
	Title      string
	ProfileURL string
}

package domain

// RowID identifies a SlotRow. It is a domain primitive so signatures cannot
// confuse row ids with company or person ids.
type RowID string

func (id RowID) String() string { return string(id) }

// IsNil returns true if the row id is empty.
func (id RowID) IsNil() bool { return id == "" }

// CompanyID identifies a canonical company.
type CompanyID string

func (id CompanyID) String() string { return string(id) }

func (id CompanyID) IsNil() bool { return id == "" }

// PersonID identifies a canonical person.
type PersonID string

func (id PersonID) String() string { return string(id) }

func (id PersonID) IsNil() bool { return id == "" }

package people

// Config holds the spoke's thresholds and budget. Immutable after
// construction; Spoke.UpdateConfig is the only reconfiguration path.
type Config struct {
	// AutoAcceptThreshold is the score at or above which a person match is
	// accepted.
	AutoAcceptThreshold int `yaml:"auto_accept_threshold"`

	// MinMatchThreshold is the floor of the manual-review band. Below it a
	// person is simply new, not an error.
	MinMatchThreshold int `yaml:"min_match_threshold"`

	// TopK caps how many candidates a match result carries.
	TopK int `yaml:"top_k"`

	// TitleHintBoost is added when a candidate's stored title contains the
	// hint.
	TitleHintBoost int `yaml:"title_hint_boost"`

	// ScopeToCompany restricts candidates to the row's resolved company.
	ScopeToCompany bool `yaml:"scope_to_company"`

	// CostCeiling caps accumulated fallback spend per agent instance, in
	// dollars.
	CostCeiling float64 `yaml:"cost_ceiling"`

	// EmployerMatchThreshold is the normalized similarity (0-1) the scraped
	// employer must reach against the canonical company name.
	EmployerMatchThreshold float64 `yaml:"employer_match_threshold"`
}

// DefaultConfig returns the standard spoke thresholds.
func DefaultConfig() Config {
	return Config{
		AutoAcceptThreshold:    90,
		MinMatchThreshold:      60,
		TopK:                   5,
		TitleHintBoost:         10,
		ScopeToCompany:         true,
		CostCeiling:            0.50,
		EmployerMatchThreshold: 0.85,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.AutoAcceptThreshold <= 0 || c.AutoAcceptThreshold > 100 {
		c.AutoAcceptThreshold = def.AutoAcceptThreshold
	}
	if c.MinMatchThreshold <= 0 || c.MinMatchThreshold > c.AutoAcceptThreshold {
		c.MinMatchThreshold = def.MinMatchThreshold
	}
	if c.TopK <= 0 {
		c.TopK = def.TopK
	}
	if c.TitleHintBoost < 0 {
		c.TitleHintBoost = def.TitleHintBoost
	}
	if c.EmployerMatchThreshold <= 0 || c.EmployerMatchThreshold > 1 {
		c.EmployerMatchThreshold = def.EmployerMatchThreshold
	}
	return c
}

package company

// Config holds the hub's thresholds and toggles. Values are merged with
// defaults at construction and are immutable afterwards; Hub.UpdateConfig is
// the only reconfiguration path.
type Config struct {
	// AutoAcceptThreshold is the score at or above which a match is accepted
	// without review.
	AutoAcceptThreshold int `yaml:"auto_accept_threshold"`

	// MinMatchThreshold is the floor of the manual-review band.
	MinMatchThreshold int `yaml:"min_match_threshold"`

	// TopK caps how many candidates a match result carries.
	TopK int `yaml:"top_k"`

	// LookupFallback enables the external company lookup when local matching
	// is inconclusive.
	LookupFallback bool `yaml:"lookup_fallback"`

	// MinPatternConfidence is the lowest adapter confidence accepted by
	// pattern discovery.
	MinPatternConfidence float64 `yaml:"min_pattern_confidence"`

	// PatternFallback enables the fixed common-pattern list when discovery
	// fails or is unconvincing.
	PatternFallback bool `yaml:"pattern_fallback"`

	// FillRateMinimum is the slot fill rate required for READY.
	FillRateMinimum float64 `yaml:"fill_rate_minimum"`
}

// DefaultConfig returns the standard hub thresholds.
func DefaultConfig() Config {
	return Config{
		AutoAcceptThreshold:  90,
		MinMatchThreshold:    60,
		TopK:                 5,
		LookupFallback:       true,
		MinPatternConfidence: 0.5,
		PatternFallback:      true,
		FillRateMinimum:      0.5,
	}
}

// normalized fills zero values from defaults so partial overrides stay safe.
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
	if c.MinPatternConfidence <= 0 || c.MinPatternConfidence > 1 {
		c.MinPatternConfidence = def.MinPatternConfidence
	}
	if c.FillRateMinimum <= 0 || c.FillRateMinimum > 1 {
		c.FillRateMinimum = def.FillRateMinimum
	}
	return c
}

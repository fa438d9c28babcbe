package company

import "anchor/internal/domain"

// Snapshot is the company state readiness evaluation reads. It is a value:
// evaluation has no side effects beyond the returned Evaluation.
type Snapshot struct {
	ID           domain.CompanyID
	Name         string
	Domain       string
	EmailPattern string
	Valid        bool
	FilledSlots  map[domain.SlotType]bool
}

// Capabilities are the downstream permissions readiness grants, gated
// independently.
type Capabilities struct {
	// PeopleSpoke allows person matching and employment retrieval.
	PeopleSpoke bool
	// RegistryAccess allows DOL-style external registry lookups.
	RegistryAccess bool
	// IntentSignals allows intent-signal processing.
	IntentSignals bool
}

// Evaluation is the result of a readiness check.
type Evaluation struct {
	Identity        domain.IdentityStatus
	FillRate        float64
	Readiness       domain.Readiness
	Capabilities    Capabilities
	Recommendations []string
}

// EvaluateReadiness computes identity completeness, slot fill rate, and the
// combined readiness of a company snapshot. Pure function.
func EvaluateReadiness(snap Snapshot, cfg Config) Evaluation {
	cfg = cfg.normalized()

	identity := identityStatus(snap)

	filled := 0
	for _, slot := range domain.AllSlotTypes {
		if snap.FilledSlots[slot] {
			filled++
		}
	}
	fillRate := float64(filled) / float64(len(domain.AllSlotTypes))

	eval := Evaluation{
		Identity: identity,
		FillRate: fillRate,
	}

	switch {
	case identity == domain.IdentityMissing || !snap.Valid:
		eval.Readiness = domain.ReadinessBlocked
	case identity == domain.IdentityComplete && fillRate >= cfg.FillRateMinimum:
		eval.Readiness = domain.ReadinessReady
	case identity == domain.IdentityComplete:
		eval.Readiness = domain.ReadinessNeedsReview
	default:
		eval.Readiness = domain.ReadinessPartial
	}

	eval.Capabilities = Capabilities{
		PeopleSpoke:    identity != domain.IdentityMissing,
		RegistryAccess: identity != domain.IdentityMissing,
		IntentSignals: identity == domain.IdentityComplete ||
			(identity == domain.IdentityPartial && filled > 0),
	}

	eval.Recommendations = recommendations(snap, eval, cfg)
	readinessEvals.WithLabelValues(string(eval.Readiness)).Inc()
	return eval
}

func identityStatus(snap Snapshot) domain.IdentityStatus {
	switch {
	case !snap.ID.IsNil() && snap.Name != "" && snap.Domain != "" && snap.EmailPattern != "":
		return domain.IdentityComplete
	case !snap.ID.IsNil() && snap.Name != "":
		return domain.IdentityPartial
	default:
		return domain.IdentityMissing
	}
}

func recommendations(snap Snapshot, eval Evaluation, cfg Config) []string {
	var recs []string
	if !snap.Valid {
		recs = append(recs, "resolve company identity")
	}
	if snap.Domain == "" {
		recs = append(recs, "discover company domain")
	}
	if snap.EmailPattern == "" {
		recs = append(recs, "run email pattern discovery")
	}
	if eval.FillRate < cfg.FillRateMinimum {
		recs = append(recs, "fill remaining slots")
	}
	return recs
}

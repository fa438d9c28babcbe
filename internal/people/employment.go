package people

import (
	"context"
	"fmt"
	"log/slog"

	"anchor/internal/adapters"
	"anchor/internal/domain"
	"anchor/internal/failure"
	"anchor/internal/similarity"
	"anchor/pkg/derrors"
)

// estimatedLookupCost is the spend assumed for one employment-lookup call
// when checking the ceiling before calling.
const estimatedLookupCost = 0.10

// EmploymentOutcome reports what retrieval found and what moved.
type EmploymentOutcome struct {
	Title    string
	Company  string
	Source   string
	Movement domain.MovementType
}

// EmploymentAgent retrieves current employment through an ordered fallback:
// profile adapter first when an identifier is known, then the paid
// name+company lookup while spend stays under the ceiling.
type EmploymentAgent struct {
	cfg     Config
	sim     *similarity.Engine
	router  *failure.Router
	profile adapters.ProfileSource
	lookup  adapters.EmploymentLookup
	invoker *adapters.Invoker
	ledger  *adapters.CostLedger
	logger  *slog.Logger
}

func newEmploymentAgent(cfg Config, sim *similarity.Engine, router *failure.Router, profile adapters.ProfileSource, lookup adapters.EmploymentLookup, invoker *adapters.Invoker, ledger *adapters.CostLedger, logger *slog.Logger) *EmploymentAgent {
	return &EmploymentAgent{
		cfg:     cfg,
		sim:     sim,
		router:  router,
		profile: profile,
		lookup:  lookup,
		invoker: invoker,
		ledger:  ledger,
		logger:  logger,
	}
}

// Retrieve fetches current title and company for the row's person, detects
// movement against the previously stored values, and updates the row in
// place. Retrieval failure is returned as an error; the caller decides how
// it affects the validity gate.
func (a *EmploymentAgent) Retrieve(ctx context.Context, row *domain.SlotRow) (EmploymentOutcome, error) {
	if err := row.Validate(); err != nil {
		return EmploymentOutcome{}, derrors.Wrap(err, derrors.CodeInvalidInput, "employment retrieval")
	}
	if row.PersonName == "" {
		return EmploymentOutcome{}, derrors.New(derrors.CodeInvalidInput, "person name is required")
	}

	prevTitle, prevCompany := row.CurrentTitle, row.CurrentCompany

	chain := a.strategies(row)
	if len(chain) == 0 {
		return EmploymentOutcome{}, derrors.New(derrors.CodeExhausted,
			"no employment source available: no profile identifier and fallback budget exhausted")
	}

	res, err := adapters.RunChain(ctx, a.invoker, chain...)
	if err != nil {
		return EmploymentOutcome{}, err
	}
	a.ledger.Record(res.Info.Cost)
	employmentRetrievals.WithLabelValues(res.Strategy).Inc()

	row.CurrentTitle = res.Value.CurrentTitle
	row.CurrentCompany = res.Value.CurrentCompany

	outcome := EmploymentOutcome{
		Title:    res.Value.CurrentTitle,
		Company:  res.Value.CurrentCompany,
		Source:   res.Strategy,
		Movement: a.movementType(prevTitle, prevCompany, res.Value.CurrentTitle, res.Value.CurrentCompany),
	}
	return outcome, nil
}

func (a *EmploymentAgent) strategies(row *domain.SlotRow) []adapters.Strategy[adapters.Employment] {
	var chain []adapters.Strategy[adapters.Employment]
	if a.profile != nil && row.LinkedInURL != "" {
		identifier := row.LinkedInURL
		chain = append(chain, adapters.Strategy[adapters.Employment]{
			Name: "profile",
			Run: func(ctx context.Context) (adapters.Employment, adapters.CallInfo, error) {
				p, info, err := a.profile.FetchProfile(ctx, identifier)
				if err != nil {
					return adapters.Employment{}, info, err
				}
				row.PublicAccessible = p.PublicAccessible
				return adapters.Employment{CurrentTitle: p.Title, CurrentCompany: p.Company}, info, nil
			},
		})
	}
	if a.lookup != nil && a.ledger.Allow(estimatedLookupCost) {
		name, company, identifier := row.PersonName, row.CompanyName, row.LinkedInURL
		chain = append(chain, adapters.Strategy[adapters.Employment]{
			Name: "employment_lookup",
			Run: func(ctx context.Context) (adapters.Employment, adapters.CallInfo, error) {
				return a.lookup.LookupEmployment(ctx, name, company, identifier)
			},
		})
	}
	return chain
}

// movementType distinguishes a company change from a title change at the
// same company. No prior observation means movement cannot be detected.
func (a *EmploymentAgent) movementType(prevTitle, prevCompany, newTitle, newCompany string) domain.MovementType {
	if prevTitle == "" && prevCompany == "" {
		return domain.MovementUnknown
	}
	if a.sim.NormalizeOrg(prevCompany) != a.sim.NormalizeOrg(newCompany) {
		return domain.MovementCompanyChange
	}
	if similarity.Normalize(prevTitle) != similarity.Normalize(newTitle) {
		return domain.MovementTitleChange
	}
	return domain.MovementNone
}

// ValidateEmployer compares the retrieved employer against the canonical
// company name and sets the person-company gate. retrieved=false (the chain
// failed entirely) fails the gate with the retrieval reason. Every failed
// validation emits one record to the person_company_mismatch bay.
func (a *EmploymentAgent) ValidateEmployer(ctx context.Context, row *domain.SlotRow, canonicalName string, retrieved bool, retrievalErr error) (bool, error) {
	if row == nil {
		return false, derrors.New(derrors.CodeInvalidInput, "slot row is required")
	}

	if !retrieved {
		reason := "employment retrieval failed"
		if retrievalErr != nil {
			reason = fmt.Sprintf("employment retrieval failed: %v", retrievalErr)
		}
		return false, a.failValidation(ctx, row, 0, reason)
	}

	score := float64(a.sim.ScoreOrg(row.CurrentCompany, canonicalName)) / 100
	if score >= a.cfg.EmployerMatchThreshold {
		row.PersonCompanyValid = true
		row.PersonCompanyScore = score
		row.PersonCompanyReason = ""
		employerValidations.WithLabelValues("valid").Inc()
		return true, nil
	}
	reason := fmt.Sprintf("current employer %q does not match canonical company %q (score %.2f)",
		row.CurrentCompany, canonicalName, score)
	return false, a.failValidation(ctx, row, score, reason)
}

func (a *EmploymentAgent) failValidation(ctx context.Context, row *domain.SlotRow, score float64, reason string) error {
	row.PersonCompanyValid = false
	row.PersonCompanyScore = score
	row.PersonCompanyReason = reason
	employerValidations.WithLabelValues("mismatch").Inc()

	rec := failure.NewRecord(failure.CategoryPersonCompanyMismatch, row, nil, reason)
	if err := a.router.Route(ctx, failure.BayPersonCompanyMismatch, rec); err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "route employer mismatch")
	}
	a.logger.Info("person-company validation failed", "row_id", row.ID, "reason", reason)
	return nil
}

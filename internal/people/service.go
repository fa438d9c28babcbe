package people

import (
	"context"
	"log/slog"
	"sync"

	"anchor/internal/adapters"
	"anchor/internal/domain"
	"anchor/internal/failure"
	"anchor/internal/similarity"
	"anchor/pkg/derrors"
)

// Spoke coordinates person resolution for rows whose company gate is up. It
// owns the person matcher and the employment agent, and the cost ledger that
// caps fallback spend for this instance.
type Spoke struct {
	sim    *similarity.Engine
	router *failure.Router
	logger *slog.Logger

	profile adapters.ProfileSource
	lookup  adapters.EmploymentLookup
	invoker *adapters.Invoker

	mu         sync.RWMutex
	cfg        Config
	matcher    *Matcher
	employment *EmploymentAgent
	ledger     *adapters.CostLedger
}

// Option configures a Spoke.
type Option func(*Spoke)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Spoke) { s.logger = logger }
}

// WithProfileSource attaches the profile adapter.
func WithProfileSource(profile adapters.ProfileSource) Option {
	return func(s *Spoke) { s.profile = profile }
}

// WithEmploymentLookup attaches the paid employment-lookup adapter.
func WithEmploymentLookup(lookup adapters.EmploymentLookup) Option {
	return func(s *Spoke) { s.lookup = lookup }
}

// WithInvoker sets the adapter invoker.
func WithInvoker(invoker *adapters.Invoker) Option {
	return func(s *Spoke) { s.invoker = invoker }
}

// WithSharedLedger pools fallback spend across spokes. Without it each
// spoke instance gets its own ledger at the configured ceiling.
func WithSharedLedger(ledger *adapters.CostLedger) Option {
	return func(s *Spoke) { s.ledger = ledger }
}

// NewSpoke constructs the people spoke.
func NewSpoke(cfg Config, sim *similarity.Engine, router *failure.Router, opts ...Option) (*Spoke, error) {
	if sim == nil {
		return nil, derrors.New(derrors.CodeInvalidInput, "similarity engine is required")
	}
	if router == nil {
		return nil, derrors.New(derrors.CodeInvalidInput, "failure router is required")
	}
	s := &Spoke{
		sim:    sim,
		router: router,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.invoker == nil {
		s.invoker = adapters.NewInvoker()
	}
	cfg = cfg.normalized()
	if s.ledger == nil {
		s.ledger = adapters.NewCostLedger(cfg.CostCeiling)
	}
	s.rebuild(cfg)
	return s, nil
}

func (s *Spoke) rebuild(cfg Config) {
	cfg = cfg.normalized()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.matcher = newMatcher(cfg, s.sim, s.router, s.logger)
	s.employment = newEmploymentAgent(cfg, s.sim, s.router, s.profile, s.lookup, s.invoker, s.ledger, s.logger)
}

// UpdateConfig is the explicit reconfiguration operation. The ledger is
// kept: spend already accumulated still counts against the new ceiling.
func (s *Spoke) UpdateConfig(cfg Config) {
	s.rebuild(cfg)
	s.logger.Info("people spoke reconfigured")
}

// Config returns the active configuration.
func (s *Spoke) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Spent reports accumulated fallback spend for this instance.
func (s *Spoke) Spent() float64 {
	return s.ledger.Spent()
}

// MatchPerson fuzzy-matches the row's person within its company.
func (s *Spoke) MatchPerson(ctx context.Context, row *domain.SlotRow, people []domain.CanonicalPerson, titleHint string) (MatchResult, domain.AgentResult) {
	s.mu.RLock()
	matcher := s.matcher
	s.mu.RUnlock()

	result, err := matcher.Match(ctx, row, people, titleHint)
	return result, domain.NewAgentResult(domain.AgentPersonMatch, row.ID, err == nil, string(result.Status), err)
}

// ResolveEmployment retrieves employment and validates the employer against
// the canonical company name, setting the person-company gate either way.
func (s *Spoke) ResolveEmployment(ctx context.Context, row *domain.SlotRow, canonicalName string) (EmploymentOutcome, domain.AgentResult) {
	s.mu.RLock()
	agent := s.employment
	s.mu.RUnlock()

	outcome, err := agent.Retrieve(ctx, row)
	if derrors.HasCode(err, derrors.CodeInvalidInput) {
		return outcome, domain.NewAgentResult(domain.AgentEmployment, rowID(row), false, "invalid input", err)
	}

	valid, routeErr := agent.ValidateEmployer(ctx, row, canonicalName, err == nil, err)
	if routeErr != nil {
		return outcome, domain.NewAgentResult(domain.AgentEmployment, rowID(row), false, "validation routing failed", routeErr)
	}

	detail := outcome.Source
	if !valid {
		detail = "employer mismatch"
	}
	return outcome, domain.NewAgentResult(domain.AgentEmployment, rowID(row), valid, detail, err)
}

func rowID(row *domain.SlotRow) domain.RowID {
	if row == nil {
		return ""
	}
	return row.ID
}

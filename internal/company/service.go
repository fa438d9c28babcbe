package company

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

// Hub is the master coordinator of company resolution. It owns the fuzzy
// matcher and the pattern agent, and it is the only component allowed to set
// the company gate on a row.
type Hub struct {
	sim    *similarity.Engine
	router *failure.Router
	logger *slog.Logger

	lookup    adapters.CompanyLookup
	discovery adapters.PatternDiscovery
	invoker   *adapters.Invoker

	mu      sync.RWMutex
	cfg     Config
	matcher *Matcher
	pattern *PatternAgent
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) { h.logger = logger }
}

// WithCompanyLookup attaches the external company lookup adapter.
func WithCompanyLookup(lookup adapters.CompanyLookup) Option {
	return func(h *Hub) { h.lookup = lookup }
}

// WithPatternDiscovery attaches the pattern discovery adapter.
func WithPatternDiscovery(discovery adapters.PatternDiscovery) Option {
	return func(h *Hub) { h.discovery = discovery }
}

// WithInvoker sets the adapter invoker (timeouts, rate limits).
func WithInvoker(invoker *adapters.Invoker) Option {
	return func(h *Hub) { h.invoker = invoker }
}

// NewHub constructs the company hub.
func NewHub(cfg Config, sim *similarity.Engine, router *failure.Router, opts ...Option) (*Hub, error) {
	if sim == nil {
		return nil, derrors.New(derrors.CodeInvalidInput, "similarity engine is required")
	}
	if router == nil {
		return nil, derrors.New(derrors.CodeInvalidInput, "failure router is required")
	}
	h := &Hub{
		sim:    sim,
		router: router,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.invoker == nil {
		h.invoker = adapters.NewInvoker()
	}
	h.rebuild(cfg)
	return h, nil
}

// rebuild swaps in freshly constructed agents holding an immutable config.
func (h *Hub) rebuild(cfg Config) {
	cfg = cfg.normalized()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cfg = cfg
	h.matcher = newMatcher(cfg, h.sim, h.router, h.lookup, h.invoker, h.logger)
	h.pattern = newPatternAgent(cfg, h.sim, h.router, h.discovery, h.invoker, h.logger)
}

// UpdateConfig is the explicit reconfiguration operation. Agents never
// mutate their own configuration mid-batch; callers swap it here.
func (h *Hub) UpdateConfig(cfg Config) {
	h.rebuild(cfg)
	h.logger.Info("company hub reconfigured",
		"auto_accept", cfg.normalized().AutoAcceptThreshold,
		"min_match", cfg.normalized().MinMatchThreshold)
}

// Config returns the active configuration.
func (h *Hub) Config() Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// ResolveCompany fuzzy-matches the row's company and records the stage
// result for auditing.
func (h *Hub) ResolveCompany(ctx context.Context, row *domain.SlotRow, canonical []domain.CanonicalCompany) (MatchResult, domain.AgentResult) {
	h.mu.RLock()
	matcher := h.matcher
	h.mu.RUnlock()

	result, err := matcher.Match(ctx, row, canonical)
	detail := string(result.Status)
	return result, domain.NewAgentResult(domain.AgentCompanyMatch, rowID(row), err == nil, detail, err)
}

// DiscoverPattern runs pattern discovery for a resolved row.
func (h *Hub) DiscoverPattern(ctx context.Context, row *domain.SlotRow, company *domain.CanonicalCompany) (PatternOutcome, domain.AgentResult) {
	h.mu.RLock()
	pattern := h.pattern
	h.mu.RUnlock()

	outcome, err := pattern.Discover(ctx, row, company)
	detail := outcome.Source
	if outcome.Skipped {
		detail = "skipped"
	}
	return outcome, domain.NewAgentResult(domain.AgentPatternDiscovery, rowID(row), err == nil, detail, err)
}

// Readiness evaluates a company snapshot under the hub's thresholds.
func (h *Hub) Readiness(snap Snapshot) Evaluation {
	return EvaluateReadiness(snap, h.Config())
}

func rowID(row *domain.SlotRow) domain.RowID {
	if row == nil {
		return ""
	}
	return row.ID
}

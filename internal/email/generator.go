// Package email produces and verifies addresses for fully validated rows.
// Both golden rules are enforced structurally here: a row whose company gate
// or person-company gate is down is skipped with a recorded reason before
// any address work happens.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"anchor/internal/adapters"
	"anchor/internal/domain"
	"anchor/internal/failure"
	"anchor/internal/similarity"
	"anchor/pkg/derrors"
)

// Config holds generation thresholds.
type Config struct {
	// MinFinderConfidence is the lowest finder confidence accepted when a
	// pattern address cannot be built.
	MinFinderConfidence float64 `yaml:"min_finder_confidence"`
}

// DefaultConfig returns the standard generation thresholds.
func DefaultConfig() Config {
	return Config{MinFinderConfidence: 0.5}
}

// Outcome reports what generation produced, or why it was skipped.
type Outcome struct {
	Email      string
	Status     adapters.VerificationStatus
	Source     string
	Skipped    bool
	SkipReason string
}

// Generator is the email generation agent.
type Generator struct {
	cfg      Config
	router   *failure.Router
	finder   adapters.EmailFinder
	verifier adapters.EmailVerifier
	invoker  *adapters.Invoker
	logger   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithFinder attaches the email finder adapter.
func WithFinder(finder adapters.EmailFinder) Option {
	return func(g *Generator) { g.finder = finder }
}

// WithVerifier attaches the verification adapter.
func WithVerifier(verifier adapters.EmailVerifier) Option {
	return func(g *Generator) { g.verifier = verifier }
}

// WithInvoker sets the adapter invoker.
func WithInvoker(invoker *adapters.Invoker) Option {
	return func(g *Generator) { g.invoker = invoker }
}

// NewGenerator constructs the generation agent.
func NewGenerator(cfg Config, router *failure.Router, opts ...Option) (*Generator, error) {
	if router == nil {
		return nil, derrors.New(derrors.CodeInvalidInput, "failure router is required")
	}
	if cfg.MinFinderConfidence <= 0 || cfg.MinFinderConfidence > 1 {
		cfg = DefaultConfig()
	}
	g := &Generator{
		cfg:    cfg,
		router: router,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.invoker == nil {
		g.invoker = adapters.NewInvoker()
	}
	return g, nil
}

// Generate produces an address for a fully validated row and verifies it.
// The gates are checked before anything else; a gated row gets no adapter
// call and no email field is ever set on it.
func (g *Generator) Generate(ctx context.Context, row *domain.SlotRow, domainName string) (Outcome, domain.AgentResult) {
	outcome, err := g.generate(ctx, row, domainName)
	detail := outcome.Source
	if outcome.Skipped {
		detail = "skipped"
	}
	return outcome, domain.NewAgentResult(domain.AgentEmailGeneration, rowID(row), err == nil, detail, err)
}

func (g *Generator) generate(ctx context.Context, row *domain.SlotRow, domainName string) (Outcome, error) {
	if row == nil {
		return Outcome{}, derrors.New(derrors.CodeInvalidInput, "slot row is required")
	}

	if !row.CompanyValid {
		return g.skip(row, "company not validated: "+orDefault(row.CompanyReason, "unresolved")), nil
	}
	if !row.PersonCompanyValid {
		return g.skip(row, "person-company not validated: "+orDefault(row.PersonCompanyReason, "unvalidated")), nil
	}
	if row.PersonName == "" {
		return Outcome{}, derrors.New(derrors.CodeInvalidInput, "person name is required")
	}
	if domainName == "" {
		return Outcome{}, derrors.New(derrors.CodeInvalidInput, "company domain is required")
	}

	first, last := nameParts(row.PersonName)

	address, source := "", ""
	if row.EmailPattern != "" {
		address = ApplyPattern(row.EmailPattern, first, last, domainName)
		source = "pattern"
	}
	if address == "" && g.finder != nil {
		found, _, err := adapters.Call(ctx, g.invoker, "email_finder",
			func(ctx context.Context) (adapters.EmailResult, adapters.CallInfo, error) {
				return g.finder.FindEmail(ctx, domainName, first, last)
			})
		if err == nil && found.Confidence >= g.cfg.MinFinderConfidence {
			address = found.Email
			source = "finder"
		}
	}
	if address == "" {
		reason := fmt.Sprintf("could not build address for %q at %q", row.PersonName, domainName)
		if err := g.router.Route(ctx, failure.BayEmailGeneration, failure.NewRecord(failure.CategoryEmailGeneration, row, nil, reason)); err != nil {
			return Outcome{}, derrors.Wrap(err, derrors.CodeInternal, "route generation failure")
		}
		return Outcome{}, derrors.New(derrors.CodeNotFound, reason)
	}

	status := adapters.VerificationUnknown
	if g.verifier != nil {
		verified, _, err := adapters.Call(ctx, g.invoker, "email_verification",
			func(ctx context.Context) (adapters.VerificationResult, adapters.CallInfo, error) {
				return g.verifier.VerifyEmail(ctx, address)
			})
		if err == nil {
			status = verified.Status
		}
	}

	if status == adapters.VerificationInvalid {
		reason := fmt.Sprintf("generated address %q failed verification", address)
		if err := g.router.Route(ctx, failure.BayEmailGeneration, failure.NewRecord(failure.CategoryEmailGeneration, row, nil, reason)); err != nil {
			return Outcome{}, derrors.Wrap(err, derrors.CodeInternal, "route verification failure")
		}
		return Outcome{Email: address, Status: status, Source: source}, derrors.New(derrors.CodeNotFound, reason)
	}

	row.Email = address
	row.EmailVerified = status == adapters.VerificationValid
	row.SlotComplete = row.EmailVerified
	generatedTotal.WithLabelValues(source, string(status)).Inc()
	return Outcome{Email: address, Status: status, Source: source}, nil
}

func (g *Generator) skip(row *domain.SlotRow, reason string) Outcome {
	full := "email generation skipped: " + reason
	row.EmailSkipReason = full
	skippedTotal.Inc()
	g.logger.Info("email generation skipped", "row_id", row.ID, "reason", reason)
	return Outcome{Skipped: true, SkipReason: full}
}

// ApplyPattern renders a known pattern token into an address. Unknown
// patterns yield an empty string so the finder can take over.
func ApplyPattern(pattern, first, last, domainName string) string {
	first = strings.ToLower(similarity.Normalize(first))
	last = strings.ToLower(similarity.Normalize(last))
	if first == "" || domainName == "" {
		return ""
	}
	initial := first[:1]

	var local string
	switch pattern {
	case "first.last":
		local = first + "." + last
	case "first_last":
		local = first + "_" + last
	case "firstlast":
		local = first + last
	case "f.last":
		local = initial + "." + last
	case "flast":
		local = initial + last
	case "first":
		local = first
	case "last.first":
		local = last + "." + first
	default:
		return ""
	}
	if strings.HasSuffix(local, ".") || strings.HasSuffix(local, "_") {
		// Single-token names make two-part patterns degenerate.
		local = strings.TrimRight(local, "._")
	}
	return local + "@" + domainName
}

// nameParts splits a person name into first and last tokens.
func nameParts(name string) (first, last string) {
	tokens := strings.Fields(similarity.Normalize(name))
	if len(tokens) == 0 {
		return "", ""
	}
	first = tokens[0]
	if len(tokens) > 1 {
		last = tokens[len(tokens)-1]
	}
	return first, last
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func rowID(row *domain.SlotRow) domain.RowID {
	if row == nil {
		return ""
	}
	return row.ID
}

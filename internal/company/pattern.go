package company

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

// DefaultFallbackPatterns is the fixed ordered list tried when the discovery
// adapter fails or is unconvincing.
var DefaultFallbackPatterns = []string{
	"first.last",
	"firstlast",
	"first_last",
	"f.last",
	"flast",
}

// PatternOutcome reports how a row's email pattern was obtained.
type PatternOutcome struct {
	Pattern    string
	Domain     string
	Confidence float64
	Source     string
	Fallback   bool

	// Skipped is set when the golden rule suppressed discovery entirely.
	Skipped    bool
	SkipReason string
}

// PatternAgent discovers a company's email pattern.
type PatternAgent struct {
	cfg       Config
	sim       *similarity.Engine
	router    *failure.Router
	discovery adapters.PatternDiscovery
	invoker   *adapters.Invoker
	logger    *slog.Logger
	fallbacks []string
}

func newPatternAgent(cfg Config, sim *similarity.Engine, router *failure.Router, discovery adapters.PatternDiscovery, invoker *adapters.Invoker, logger *slog.Logger) *PatternAgent {
	return &PatternAgent{
		cfg:       cfg,
		sim:       sim,
		router:    router,
		discovery: discovery,
		invoker:   invoker,
		logger:    logger,
		fallbacks: DefaultFallbackPatterns,
	}
}

// Discover finds the email pattern for the row's company. The golden rule is
// checked first: a row whose company gate is down gets no adapter call and
// is marked skipped with the stored reason.
func (a *PatternAgent) Discover(ctx context.Context, row *domain.SlotRow, company *domain.CanonicalCompany) (PatternOutcome, error) {
	if row == nil {
		return PatternOutcome{}, derrors.New(derrors.CodeInvalidInput, "slot row is required")
	}

	if !row.CompanyValid {
		reason := row.CompanyReason
		if reason == "" {
			reason = "company not resolved"
		}
		row.EmailSkipReason = "email generation skipped: " + reason
		patternOutcomes.WithLabelValues("skipped").Inc()
		return PatternOutcome{Skipped: true, SkipReason: row.EmailSkipReason}, nil
	}

	domainName := ""
	if company != nil {
		domainName = company.Domain
		if row.EmailPattern == "" && company.EmailPattern != "" {
			// The canonical record already knows its pattern.
			row.EmailPattern = company.EmailPattern
			patternOutcomes.WithLabelValues("canonical").Inc()
			return PatternOutcome{Pattern: company.EmailPattern, Domain: domainName, Confidence: 1, Source: "canonical"}, nil
		}
	}
	if domainName == "" {
		domainName = a.DeriveDomain(row.CompanyName)
	}

	if a.discovery != nil {
		result, info, err := adapters.Call(ctx, a.invoker, "pattern_discovery",
			func(ctx context.Context) (adapters.PatternResult, adapters.CallInfo, error) {
				return a.discovery.DiscoverPattern(ctx, domainName)
			})
		if err == nil && result.Confidence >= a.cfg.MinPatternConfidence && result.Pattern != "" {
			row.EmailPattern = result.Pattern
			patternOutcomes.WithLabelValues("discovered").Inc()
			return PatternOutcome{
				Pattern:    result.Pattern,
				Domain:     domainName,
				Confidence: result.Confidence,
				Source:     info.Source,
			}, nil
		}
		if err != nil {
			a.logger.Warn("pattern discovery failed", "domain", domainName, "error", err)
		} else {
			a.logger.Info("pattern discovery unconvincing",
				"domain", domainName, "confidence", result.Confidence, "minimum", a.cfg.MinPatternConfidence)
		}
	}

	if a.cfg.PatternFallback && len(a.fallbacks) > 0 {
		row.EmailPattern = a.fallbacks[0]
		patternOutcomes.WithLabelValues("fallback").Inc()
		return PatternOutcome{
			Pattern:  a.fallbacks[0],
			Domain:   domainName,
			Source:   "fallback",
			Fallback: true,
		}, nil
	}

	reason := fmt.Sprintf("no email pattern for domain %q", domainName)
	if err := a.router.Route(ctx, failure.BayEmailPattern, failure.NewRecord(failure.CategoryEmailPattern, row, nil, reason)); err != nil {
		return PatternOutcome{}, derrors.Wrap(err, derrors.CodeInternal, "route pattern failure")
	}
	patternOutcomes.WithLabelValues("failed").Inc()
	return PatternOutcome{Domain: domainName}, derrors.New(derrors.CodeNotFound, reason)
}

// DeriveDomain guesses a domain from a company name by stripping legal
// suffixes and non-alphanumerics and appending .com as a last resort.
func (a *PatternAgent) DeriveDomain(name string) string {
	stripped := strings.ReplaceAll(a.sim.NormalizeOrg(name), " ", "")
	if stripped == "" {
		return ""
	}
	return stripped + ".com"
}

// Package adaptertest provides scripted in-memory adapters for tests. Fakes
// record call counts so tests can assert that gated stages made no vendor
// calls.
package adaptertest

import (
	"context"
	"sync/atomic"

	"anchor/internal/adapters"
)

// FakeCompanyLookup returns a fixed candidate list.
type FakeCompanyLookup struct {
	Records []adapters.CompanyRecord
	Err     error
	Cost    float64
	Calls   atomic.Int64
}

func (f *FakeCompanyLookup) LookupCompany(_ context.Context, _ string) ([]adapters.CompanyRecord, adapters.CallInfo, error) {
	f.Calls.Add(1)
	if f.Err != nil {
		return nil, adapters.CallInfo{Source: "fake"}, f.Err
	}
	return f.Records, adapters.CallInfo{Cost: f.Cost, Source: "fake"}, nil
}

// FakePatternDiscovery returns a fixed pattern result.
type FakePatternDiscovery struct {
	Result adapters.PatternResult
	Err    error
	Cost   float64
	Calls  atomic.Int64
}

func (f *FakePatternDiscovery) DiscoverPattern(_ context.Context, domain string) (adapters.PatternResult, adapters.CallInfo, error) {
	f.Calls.Add(1)
	if f.Err != nil {
		return adapters.PatternResult{}, adapters.CallInfo{Source: "fake"}, f.Err
	}
	res := f.Result
	if res.Domain == "" {
		res.Domain = domain
	}
	return res, adapters.CallInfo{Cost: f.Cost, Source: "fake"}, nil
}

// FakeEmailFinder returns a fixed address.
type FakeEmailFinder struct {
	Result adapters.EmailResult
	Err    error
	Cost   float64
	Calls  atomic.Int64
}

func (f *FakeEmailFinder) FindEmail(_ context.Context, _, _, _ string) (adapters.EmailResult, adapters.CallInfo, error) {
	f.Calls.Add(1)
	if f.Err != nil {
		return adapters.EmailResult{}, adapters.CallInfo{Source: "fake"}, f.Err
	}
	return f.Result, adapters.CallInfo{Cost: f.Cost, Source: "fake"}, nil
}

// FakeEmailVerifier returns a fixed verification status.
type FakeEmailVerifier struct {
	Status adapters.VerificationStatus
	Err    error
	Calls  atomic.Int64
}

func (f *FakeEmailVerifier) VerifyEmail(_ context.Context, _ string) (adapters.VerificationResult, adapters.CallInfo, error) {
	f.Calls.Add(1)
	if f.Err != nil {
		return adapters.VerificationResult{}, adapters.CallInfo{Source: "fake"}, f.Err
	}
	status := f.Status
	if status == "" {
		status = adapters.VerificationValid
	}
	return adapters.VerificationResult{Status: status}, adapters.CallInfo{Source: "fake"}, nil
}

// FakeProfileSource returns a fixed profile.
type FakeProfileSource struct {
	Profile adapters.Profile
	Err     error
	Cost    float64
	Calls   atomic.Int64
}

func (f *FakeProfileSource) FetchProfile(_ context.Context, _ string) (adapters.Profile, adapters.CallInfo, error) {
	f.Calls.Add(1)
	if f.Err != nil {
		return adapters.Profile{}, adapters.CallInfo{Source: "fake"}, f.Err
	}
	return f.Profile, adapters.CallInfo{Cost: f.Cost, Source: "fake"}, nil
}

// FakeEmploymentLookup returns a fixed employment record.
type FakeEmploymentLookup struct {
	Employment adapters.Employment
	Err        error
	Cost       float64
	Calls      atomic.Int64
}

func (f *FakeEmploymentLookup) LookupEmployment(_ context.Context, _, _, _ string) (adapters.Employment, adapters.CallInfo, error) {
	f.Calls.Add(1)
	if f.Err != nil {
		return adapters.Employment{}, adapters.CallInfo{Source: "fake"}, f.Err
	}
	return f.Employment, adapters.CallInfo{Cost: f.Cost, Source: "fake"}, nil
}

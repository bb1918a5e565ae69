package metadata

import (
	"context"
	"fmt"
	"sync"
)

// FetchCall records one invocation of MockProvider.Fetch.
type FetchCall struct {
	Lookup Lookup
	IDType IDType
}

// MockProvider is a configurable test double. It returns canned field
// responses or errors keyed by identifier and records every fetch for
// assertions. Safe for concurrent use: stage-one fan-out hits local
// mocks from multiple goroutines.
type MockProvider struct {
	ProviderName     string
	ProviderPriority int
	ProviderKind     Kind
	IsOverride       bool

	// Responses maps identifier -> fields to return.
	Responses map[string]map[FieldName]any
	// Confidences maps identifier -> per-field confidence. Fields
	// without an entry default to 1.0.
	Confidences map[string]map[FieldName]float64
	// Errors maps identifier -> error message; a match makes Fetch
	// return that error instead of a result.
	Errors map[string]string
	// SupportedIDTypes limits CanLookup. Defaults to {asin}.
	SupportedIDTypes map[IDType]bool

	mu    sync.Mutex
	calls []FetchCall
}

// NewMockProvider creates a network-kind mock with priority 50 and no
// canned data. Configure the struct fields directly for specific tests.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProviderName:     name,
		ProviderPriority: 50,
		ProviderKind:     KindNetwork,
		Responses:        make(map[string]map[FieldName]any),
		Confidences:      make(map[string]map[FieldName]float64),
		Errors:           make(map[string]string),
	}
}

func (m *MockProvider) Name() string   { return m.ProviderName }
func (m *MockProvider) Priority() int  { return m.ProviderPriority }
func (m *MockProvider) Override() bool { return m.IsOverride }

func (m *MockProvider) Kind() Kind {
	if m.ProviderKind == "" {
		return KindNetwork
	}
	return m.ProviderKind
}

// CanLookup accepts lookups whose identifier has a configured response
// or error.
func (m *MockProvider) CanLookup(lookup Lookup, idType IDType) bool {
	if m.SupportedIDTypes != nil && !m.SupportedIDTypes[idType] {
		return false
	}
	if m.SupportedIDTypes == nil && idType != IDTypeASIN {
		return false
	}
	id := lookup.ID(idType)
	if id == "" {
		return false
	}
	_, hasResponse := m.Responses[id]
	_, hasError := m.Errors[id]
	return hasResponse || hasError
}

// Fetch returns the canned response or error for the identifier. An
// identifier with no configuration yields a successful empty result.
func (m *MockProvider) Fetch(_ context.Context, lookup Lookup, idType IDType) (*Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, FetchCall{Lookup: lookup, IDType: idType})
	m.mu.Unlock()

	id := lookup.ID(idType)
	if id == "" {
		return Failure(m.ProviderName, fmt.Sprintf("no %s in lookup", idType)), nil
	}

	if msg, ok := m.Errors[id]; ok {
		return nil, fmt.Errorf("%s", msg)
	}

	fields, ok := m.Responses[id]
	if !ok {
		return NewResult(m.ProviderName), nil
	}

	res := NewResult(m.ProviderName)
	confidences := m.Confidences[id]
	for name, value := range fields {
		confidence := 1.0
		if c, ok := confidences[name]; ok {
			confidence = c
		}
		if err := res.SetField(name, value, confidence); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// FetchCount returns how many times Fetch was invoked.
func (m *MockProvider) FetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the recorded fetch invocations.
func (m *MockProvider) Calls() []FetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]FetchCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Reset clears the recorded invocation history.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

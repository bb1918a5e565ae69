package metadata

import (
	"fmt"
	"time"
)

// Result is what a single provider fetch produces: a partial mapping of
// canonical fields to values with a parallel confidence score per field.
// Fields and Confidence always hold the same keys; use SetField to keep
// them in sync.
type Result struct {
	// Provider is the name of the provider that produced this result.
	Provider string

	// Success is false when the fetch itself failed. A successful result
	// with no fields is a valid "looked, found nothing" answer.
	Success bool

	// Fields maps canonical field name to value.
	Fields map[FieldName]any

	// Confidence maps canonical field name to a score in [0, 1].
	Confidence map[FieldName]float64

	// Err carries the failure message when Success is false.
	Err string

	// Cached and CacheAge report whether a cache-aware provider served
	// this result from its local cache, and how stale it is.
	Cached   bool
	CacheAge time.Duration
}

// NewResult creates an empty successful result for the named provider.
func NewResult(provider string) *Result {
	return &Result{
		Provider:   provider,
		Success:    true,
		Fields:     make(map[FieldName]any),
		Confidence: make(map[FieldName]float64),
	}
}

// Failure creates a failed result with the given error message.
func Failure(provider, errMsg string) *Result {
	return &Result{Provider: provider, Success: false, Err: errMsg}
}

// SetField records a field value together with its confidence score.
// Value and confidence are set atomically so Fields and Confidence never
// drift apart. A confidence outside [0, 1] is a programming error in the
// calling provider and is rejected.
func (r *Result) SetField(name FieldName, value any, confidence float64) error {
	if confidence < 0.0 || confidence > 1.0 {
		return fmt.Errorf("confidence for %q must be in [0.0, 1.0], got %v", name, confidence)
	}
	if r.Fields == nil {
		r.Fields = make(map[FieldName]any)
	}
	if r.Confidence == nil {
		r.Confidence = make(map[FieldName]float64)
	}
	r.Fields[name] = value
	r.Confidence[name] = confidence
	return nil
}

// MustSetField is SetField for provider code where the confidence is a
// compile-time constant. It panics on an out-of-range confidence, which
// is a defect that should fail loudly during development rather than be
// swallowed at runtime.
func (r *Result) MustSetField(name FieldName, value any, confidence float64) {
	if err := r.SetField(name, value, confidence); err != nil {
		panic(err)
	}
}

package metadata

import "context"

// Kind partitions providers for fetch scheduling: local providers are
// cheap and run concurrently in stage one, network providers are
// expensive and run sequentially in stage two.
type Kind string

const (
	KindLocal   Kind = "local"
	KindNetwork Kind = "network"
)

// Provider is a pluggable metadata source. Implementations wrap a network
// API, a local inspection tool, a sidecar file, or a test double.
//
// Fetch should return an error only for genuine failures (network down,
// subprocess crash, unreadable file). "Looked it up, nothing there" is a
// successful Result with empty fields, or a Failure result when the
// miss itself is worth surfacing. The aggregator converts returned errors
// into failed Results, so one broken provider never aborts a batch.
type Provider interface {
	// Name returns the unique provider identifier, e.g. "audnex".
	Name() string

	// Priority orders providers when confidence scores tie.
	// Lower is more trusted.
	Priority() int

	// Kind reports whether this provider is local or network.
	Kind() Kind

	// Override reports whether this provider may intentionally assert
	// empty values. Normal providers' empty values are skipped during
	// merge; an override provider's empty value clears the field.
	Override() bool

	// CanLookup is a pure predicate: does this provider have enough
	// information in the lookup to attempt a fetch with this id type?
	CanLookup(lookup Lookup, idType IDType) bool

	// Fetch retrieves metadata. Blocking work (subprocess, file I/O)
	// runs inline; the aggregator schedules calls on goroutines as
	// needed. Implementations should honor ctx cancellation.
	Fetch(ctx context.Context, lookup Lookup, idType IDType) (*Result, error)
}

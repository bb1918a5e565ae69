package metadata

import (
	"context"
	"log/slog"
	"reflect"
	"sort"
	"sync"
)

// Strategy selects how field conflicts between providers are resolved.
type Strategy string

const (
	// StrategyConfidence resolves conflicts by confidence score, breaking
	// ties with provider priority, then value quality, then provider name.
	StrategyConfidence Strategy = "confidence"

	// StrategyPriority resolves conflicts purely by provider priority.
	StrategyPriority Strategy = "priority"
)

// Conflict resolution reasons recorded on FieldConflict.
const (
	ReasonConfidence = "confidence"
	ReasonPriority   = "priority"
	ReasonQuality    = "quality"
)

// FieldConflict is the audit record written when two or more providers
// supplied differing values for the same field.
type FieldConflict struct {
	Field    FieldName      `json:"field"`
	Values   map[string]any `json:"values"` // provider name -> value
	Resolved any            `json:"resolved"`
	Reason   string         `json:"reason"` // "confidence" | "priority" | "quality"
}

// AggregatedResult is the merged output of one FetchAll call.
type AggregatedResult struct {
	// Fields holds the merged field values.
	Fields map[FieldName]any `json:"fields"`

	// Sources maps each merged field to the provider whose value won.
	Sources map[FieldName]string `json:"sources"`

	// Conflicts lists every field where providers disagreed, in
	// canonical field order.
	Conflicts []FieldConflict `json:"conflicts,omitempty"`

	// Missing lists the canonical fields no provider supplied.
	Missing []FieldName `json:"missing,omitempty"`

	// Errors maps provider name to error text for providers that
	// failed outright.
	Errors map[string]string `json:"errors,omitempty"`
}

// FetchOptions tunes one FetchAll call. The zero value looks up by ASIN
// across every applicable provider and stops calling network providers
// once "title" is filled.
type FetchOptions struct {
	// IDType selects which identifier to look up by. Defaults to ASIN.
	IDType IDType

	// Providers restricts the fetch to an explicit set of provider
	// names. Names not present in the registry are skipped. When empty,
	// every provider applicable to the lookup is used.
	Providers []string

	// RequiredFields are the fields that must be non-empty before
	// network providers are skipped. Defaults to ["title"].
	RequiredFields []FieldName

	// DisableEarlyStop forces every provider to run even after the
	// required fields are covered.
	DisableEarlyStop bool

	// LocalOnly skips network providers entirely.
	LocalOnly bool
}

// Aggregator fetches from multiple providers and merges their partial
// results into one consolidated record with a full audit trail.
//
// Fetch scheduling is two-staged: local providers fan out concurrently,
// then network providers run one at a time. The sequential second stage
// is a deliberate rate-limiting courtesy to external APIs.
type Aggregator struct {
	registry *Registry
	strategy Strategy
}

// NewAggregator creates an aggregator over the given registry. An empty
// strategy defaults to StrategyConfidence.
func NewAggregator(registry *Registry, strategy Strategy) *Aggregator {
	if strategy == "" {
		strategy = StrategyConfidence
	}
	return &Aggregator{registry: registry, strategy: strategy}
}

// FetchAll runs the two-stage fetch and merges everything collected.
//
// Provider failures never abort the batch: each failure is recorded in
// the result's Errors map and the merge proceeds with whatever succeeded.
// A lookup no provider can handle is not an error either: it yields a
// result whose Missing covers the whole vocabulary. Context cancellation
// surfaces the same way, as per-provider errors.
func (a *Aggregator) FetchAll(ctx context.Context, lookup Lookup, opts FetchOptions) *AggregatedResult {
	idType := opts.IDType
	if idType == "" {
		idType = IDTypeASIN
	}
	required := opts.RequiredFields
	if len(required) == 0 {
		required = []FieldName{FieldTitle}
	}

	candidates := a.resolveProviders(lookup, idType, opts.Providers)
	if len(candidates) == 0 {
		slog.Warn("No providers available for lookup", "id_type", idType, "id", lookup.ID(idType))
		return &AggregatedResult{
			Fields:  map[FieldName]any{},
			Sources: map[FieldName]string{},
			Missing: AllFields(),
			Errors:  map[string]string{},
		}
	}

	providerByName := make(map[string]Provider, len(candidates))
	var local, network []Provider
	for _, p := range candidates {
		providerByName[p.Name()] = p
		if p.Kind() == KindNetwork {
			if opts.LocalOnly {
				slog.Debug("Skipping network provider", "provider", p.Name())
				continue
			}
			network = append(network, p)
		} else {
			local = append(local, p)
		}
	}

	var results []*Result
	errors := make(map[string]string)

	// Stage 1: local providers fan out concurrently. Results land in a
	// slice indexed by provider position so the merge sees registry
	// order, not completion order.
	if len(local) > 0 {
		slog.Debug("Stage 1: fetching from local providers", "count", len(local))
		stage1 := make([]*Result, len(local))
		var wg sync.WaitGroup
		for i, p := range local {
			wg.Add(1)
			go func() {
				defer wg.Done()
				stage1[i] = a.safeFetch(ctx, p, lookup, idType)
			}()
		}
		wg.Wait()

		for _, res := range stage1 {
			if res.Success {
				results = append(results, res)
			} else if res.Err != "" {
				errors[res.Provider] = res.Err
			}
		}
	}

	if !opts.DisableEarlyStop && coversRequired(required, filledFields(results, providerByName)) {
		slog.Debug("Required fields filled by local providers, skipping network")
		return a.merge(results, providerByName, errors)
	}

	// Stage 2: network providers run strictly one at a time, re-checking
	// coverage after each so the remaining calls can be skipped.
	if len(network) > 0 {
		slog.Debug("Stage 2: fetching from network providers", "count", len(network))
		for _, p := range network {
			res := a.safeFetch(ctx, p, lookup, idType)
			if res.Success {
				results = append(results, res)
			} else if res.Err != "" {
				errors[res.Provider] = res.Err
			}

			if !opts.DisableEarlyStop && coversRequired(required, filledFields(results, providerByName)) {
				slog.Debug("Required fields filled, stopping early", "after", p.Name())
				break
			}
		}
	}

	return a.merge(results, providerByName, errors)
}

// resolveProviders picks the candidate list: an explicit subset by name,
// or everything the registry reports as applicable.
func (a *Aggregator) resolveProviders(lookup Lookup, idType IDType, names []string) []Provider {
	if len(names) == 0 {
		return a.registry.ForLookup(lookup, idType)
	}
	var providers []Provider
	for _, name := range names {
		if p := a.registry.Get(name); p != nil {
			providers = append(providers, p)
		}
	}
	return providers
}

// safeFetch isolates one provider invocation: a returned error becomes a
// failed Result instead of propagating into the batch.
func (a *Aggregator) safeFetch(ctx context.Context, p Provider, lookup Lookup, idType IDType) *Result {
	res, err := p.Fetch(ctx, lookup, idType)
	if err != nil {
		slog.Warn("Provider fetch failed", "provider", p.Name(), "error", err)
		return Failure(p.Name(), err.Error())
	}
	if res == nil {
		slog.Warn("Provider returned nil result", "provider", p.Name())
		return Failure(p.Name(), "provider returned no result")
	}
	return res
}

// candidate is one provider's claim on a field during the merge.
type candidate struct {
	provider   string
	value      any
	confidence float64
	priority   int
}

// merge folds the collected results into one AggregatedResult.
//
// Empty values are skipped unless the emitting provider is an override
// provider. That is how a sidecar can deliberately blank a field a less
// trusted source had filled. Fields with a single surviving candidate
// pass through untouched; fields with several go through conflict
// resolution and gain a FieldConflict audit record.
func (a *Aggregator) merge(results []*Result, providers map[string]Provider, errors map[string]string) *AggregatedResult {
	aggregated := &AggregatedResult{
		Fields:  make(map[FieldName]any),
		Sources: make(map[FieldName]string),
		Errors:  errors,
	}

	byField := make(map[FieldName][]candidate)
	for _, res := range results {
		if !res.Success {
			continue
		}
		p := providers[res.Provider]
		if p == nil {
			continue
		}
		for name, value := range res.Fields {
			if !p.Override() && isEmpty(value) {
				continue
			}
			confidence, ok := res.Confidence[name]
			if !ok {
				confidence = 1.0
			}
			byField[name] = append(byField[name], candidate{
				provider:   res.Provider,
				value:      value,
				confidence: confidence,
				priority:   p.Priority(),
			})
		}
	}

	// Walk fields in canonical order so conflicts and sources come out
	// identically on every run.
	for _, name := range allFields {
		cands, ok := byField[name]
		if !ok {
			aggregated.Missing = append(aggregated.Missing, name)
			continue
		}

		if len(cands) == 1 {
			aggregated.Fields[name] = cands[0].value
			aggregated.Sources[name] = cands[0].provider
			continue
		}

		resolved, reason := a.resolve(cands)
		aggregated.Fields[name] = resolved
		for _, c := range cands {
			if reflect.DeepEqual(c.value, resolved) {
				aggregated.Sources[name] = c.provider
				break
			}
		}

		values := make(map[string]any, len(cands))
		for _, c := range cands {
			values[c.provider] = c.value
		}
		aggregated.Conflicts = append(aggregated.Conflicts, FieldConflict{
			Field:    name,
			Values:   values,
			Resolved: resolved,
			Reason:   reason,
		})
	}

	return aggregated
}

// resolve picks the winning value among conflicting candidates and names
// the criterion that actually separated winner from runner-up.
func (a *Aggregator) resolve(cands []candidate) (any, string) {
	if a.strategy == StrategyPriority {
		sorted := make([]candidate, len(cands))
		copy(sorted, cands)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].priority != sorted[j].priority {
				return sorted[i].priority < sorted[j].priority
			}
			return sorted[i].provider < sorted[j].provider
		})
		return sorted[0].value, ReasonPriority
	}

	type scored struct {
		candidate
		quality int
	}
	ranked := make([]scored, 0, len(cands))
	for _, c := range cands {
		ranked = append(ranked, scored{candidate: c, quality: valueQuality(c.value)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].confidence != ranked[j].confidence {
			return ranked[i].confidence > ranked[j].confidence
		}
		if ranked[i].priority != ranked[j].priority {
			return ranked[i].priority < ranked[j].priority
		}
		if ranked[i].quality != ranked[j].quality {
			return ranked[i].quality > ranked[j].quality
		}
		return ranked[i].provider < ranked[j].provider
	})

	winner := ranked[0]
	reason := ReasonConfidence
	if len(ranked) > 1 {
		second := ranked[1]
		switch {
		case winner.confidence != second.confidence:
			reason = ReasonConfidence
		case winner.priority != second.priority:
			reason = ReasonPriority
		default:
			reason = ReasonQuality
		}
	}
	return winner.value, reason
}

// filledFields returns the set of fields with usable values so far.
// Override providers count even for empty values: an intentional clear
// is an answer, not a gap.
func filledFields(results []*Result, providers map[string]Provider) map[FieldName]bool {
	filled := make(map[FieldName]bool)
	for _, res := range results {
		if !res.Success {
			continue
		}
		p := providers[res.Provider]
		for name, value := range res.Fields {
			if (p != nil && p.Override()) || !isEmpty(value) {
				filled[name] = true
			}
		}
	}
	return filled
}

func coversRequired(required []FieldName, filled map[FieldName]bool) bool {
	if len(required) == 0 {
		return false
	}
	for _, f := range required {
		if !filled[f] {
			return false
		}
	}
	return true
}

// isEmpty reports whether a value counts as "nothing supplied":
// nil, an empty string, or an empty slice/map.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

// valueQuality scores a value's richness for last-resort tie-breaking.
// Longer strings and lists are treated as more complete data.
func valueQuality(value any) int {
	if value == nil {
		return 0
	}
	if s, ok := value.(string); ok {
		return len(s)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return rv.Len()
	}
	return 1
}

package lookup

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-searchform/pkg/field"
	"github.com/goliatone/go-searchform/pkg/registry"
)

// BreakerConfig configures the per-field circuit breaker wrapped around
// lookup services.
type BreakerConfig struct {
	Enabled          bool
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerConfig trips after five consecutive failures and probes again
// after thirty seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Option customises a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger used for failed lookups and breaker changes.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithTTL caches successful results per field and query. Zero disables
// caching.
func WithTTL(ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.ttl = ttl
	}
}

// WithBreaker replaces the circuit breaker settings.
func WithBreaker(cfg BreakerConfig) Option {
	return func(f *Fetcher) {
		f.breaker = cfg
	}
}

// WithConcurrency bounds the number of services FetchAll calls at once.
func WithConcurrency(limit int) Option {
	return func(f *Fetcher) {
		f.concurrency = limit
	}
}

type cacheEntry struct {
	records    []field.Record
	expiration time.Time
}

// Fetcher calls lookup services for form renderers. It is safe for concurrent
// use.
type Fetcher struct {
	logger      zerolog.Logger
	ttl         time.Duration
	breaker     BreakerConfig
	concurrency int
	now         func() time.Time

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
	cache    sync.Map
}

// NewFetcher constructs a Fetcher with the default breaker configuration and
// no caching.
func NewFetcher(options ...Option) *Fetcher {
	f := &Fetcher{
		logger:   zerolog.Nop(),
		breaker:  DefaultBreakerConfig(),
		now:      time.Now,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Fetch calls the descriptor's lookup service. Failures, open breakers and
// descriptors without a lookup all yield an empty record set.
func (f *Fetcher) Fetch(ctx context.Context, desc field.Descriptor, query field.Query) []field.Record {
	if desc.Lookup == nil || desc.Lookup.Service == nil {
		return []field.Record{}
	}

	cacheKey := desc.Key + "?" + encodeQuery(query)
	if records, ok := f.cached(cacheKey); ok {
		return records
	}

	records, err := f.call(ctx, desc, query)
	if err != nil {
		f.logger.Warn().
			Err(err).
			Str("field", desc.Key).
			Msg("lookup: service failed, using empty result")
		return []field.Record{}
	}
	if records == nil {
		records = []field.Record{}
	}
	f.store(cacheKey, records)
	return records
}

// FetchAll fetches every lookup-bearing field of reg concurrently. queries
// supplies per-field arguments and may be nil.
func (f *Fetcher) FetchAll(ctx context.Context, reg *registry.Registry, queries map[string]field.Query) map[string][]field.Record {
	descs := reg.Lookups()
	results := make(map[string][]field.Record, len(descs))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if f.concurrency > 0 {
		g.SetLimit(f.concurrency)
	}
	for _, desc := range descs {
		desc := desc
		g.Go(func() error {
			records := f.Fetch(gctx, desc, queries[desc.Key])
			mu.Lock()
			results[desc.Key] = records
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (f *Fetcher) call(ctx context.Context, desc field.Descriptor, query field.Query) ([]field.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	breaker := f.breakerFor(desc.Key)
	if breaker == nil {
		return desc.Lookup.Service(ctx, query)
	}
	out, err := breaker.Execute(func() (interface{}, error) {
		records, err := desc.Lookup.Service(ctx, query)
		if err != nil {
			return nil, err
		}
		return records, nil
	})
	if err != nil {
		return nil, fmt.Errorf("lookup: %s: %w", desc.Key, err)
	}
	records, _ := out.([]field.Record)
	return records, nil
}

func (f *Fetcher) breakerFor(key string) *gobreaker.CircuitBreaker {
	if !f.breaker.Enabled {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if breaker, ok := f.breakers[key]; ok {
		return breaker
	}
	threshold := f.breaker.FailureThreshold
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        key,
		MaxRequests: f.breaker.MaxRequests,
		Interval:    f.breaker.Interval,
		Timeout:     f.breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			f.logger.Warn().
				Str("field", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("lookup: circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	f.breakers[key] = breaker
	return breaker
}

func (f *Fetcher) cached(key string) ([]field.Record, bool) {
	if f.ttl <= 0 {
		return nil, false
	}
	value, ok := f.cache.Load(key)
	if !ok {
		return nil, false
	}
	entry := value.(cacheEntry)
	if f.now().After(entry.expiration) {
		f.cache.Delete(key)
		return nil, false
	}
	return cloneRecords(entry.records), true
}

func (f *Fetcher) store(key string, records []field.Record) {
	if f.ttl <= 0 {
		return
	}
	f.cache.Store(key, cacheEntry{records: cloneRecords(records), expiration: f.now().Add(f.ttl)})
}

// Invalidate drops cached results for the field key.
func (f *Fetcher) Invalidate(key string) {
	prefix := key + "?"
	f.cache.Range(func(k, _ any) bool {
		if strings.HasPrefix(k.(string), prefix) {
			f.cache.Delete(k)
		}
		return true
	})
}

func encodeQuery(query field.Query) string {
	if len(query) == 0 {
		return ""
	}
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		text, _ := canonical(query[key])
		parts = append(parts, key+"="+text)
	}
	return strings.Join(parts, "&")
}

// cloneRecords copies the slice and each record so callers may sort, filter
// or edit results without touching cached or shared data.
func cloneRecords(records []field.Record) []field.Record {
	out := make([]field.Record, len(records))
	for i, record := range records {
		out[i] = maps.Clone(record)
	}
	return out
}

package cycles

import "github.com/wbrown/cycles/rng"

// ctxKey is an opaque key identity for QueryContext lookups. Per the
// REDESIGN FLAGS note on reflection-based type tagging, keys here are plain
// string identities assigned at the point of use, never a reflected type.
type ctxKey string

// Standard QueryContext keys.
const (
	KeyRandomSeed ctxKey = "randomSeed"
	KeyRangeMin   ctxKey = "rangeMin"
	KeyRangeMax   ctxKey = "rangeMax"
)

const (
	defaultRangeMin = 0.0
	defaultRangeMax = 1.0
)

// QueryContext is an immutable key→value map threaded through every
// queryArc call. It carries the random seed and the continuous-range
// bounds (spec §3), and is safe to share across goroutines since it is
// never mutated in place — Update always returns a new value.
type QueryContext struct {
	values map[ctxKey]interface{}
}

// NewQueryContext returns an empty context (randomSeed defaults to 0,
// rangeMin/rangeMax default to 0/1).
func NewQueryContext() QueryContext {
	return QueryContext{}
}

// GetOrNil returns the raw value stored at key, or nil if unset.
func (c QueryContext) GetOrNil(key ctxKey) interface{} {
	if c.values == nil {
		return nil
	}
	v, ok := c.values[key]
	if !ok {
		return nil
	}
	return v
}

// GetOrDefault returns the raw value stored at key, or def if unset.
func (c QueryContext) GetOrDefault(key ctxKey, def interface{}) interface{} {
	if c.values == nil {
		return def
	}
	if v, ok := c.values[key]; ok {
		return v
	}
	return def
}

// Update returns a new QueryContext with builder applied to a private copy
// of the map. The receiver is never mutated.
func (c QueryContext) Update(builder func(*QueryContext)) QueryContext {
	nc := c.clone()
	if builder != nil {
		builder(&nc)
	}
	return nc
}

// Set returns a new QueryContext with key bound to value.
func (c QueryContext) Set(key ctxKey, value interface{}) QueryContext {
	return c.Update(func(nc *QueryContext) {
		nc.values[key] = value
	})
}

func (c QueryContext) clone() QueryContext {
	nc := QueryContext{values: make(map[ctxKey]interface{}, len(c.values)+1)}
	for k, v := range c.values {
		nc.values[k] = v
	}
	return nc
}

// RandomSeed returns the context's randomSeed, defaulting to 0.
func (c QueryContext) RandomSeed() int64 {
	if v, ok := c.GetOrNil(KeyRandomSeed).(int64); ok {
		return v
	}
	return 0
}

// WithRandomSeed returns a new context with randomSeed set.
func (c QueryContext) WithRandomSeed(seed int64) QueryContext {
	return c.Set(KeyRandomSeed, seed)
}

// RangeMin returns the context's rangeMin, defaulting to 0.
func (c QueryContext) RangeMin() float64 {
	if v, ok := c.GetOrNil(KeyRangeMin).(float64); ok {
		return v
	}
	return defaultRangeMin
}

// RangeMax returns the context's rangeMax, defaulting to 1.
func (c QueryContext) RangeMax() float64 {
	if v, ok := c.GetOrNil(KeyRangeMax).(float64); ok {
		return v
	}
	return defaultRangeMax
}

// WithRange returns a new context with rangeMin/rangeMax set, the mechanism
// behind Continuous pattern `.range(min, max)`.
func (c QueryContext) WithRange(min, max float64) QueryContext {
	return c.Update(func(nc *QueryContext) {
		nc.values[KeyRangeMin] = min
		nc.values[KeyRangeMax] = max
	})
}

// GetSeededRandom derives a deterministic RNG from this context's
// randomSeed, a tag identifying the calling combinator, and any mixins
// (typically the cycle number or event position) that disambiguate one
// call site from another.
func (c QueryContext) GetSeededRandom(tag string, mixins ...interface{}) *rng.RNG {
	return rng.Derive(c.RandomSeed(), tag, mixins...)
}

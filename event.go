package cycles

// Event is a single occurrence of a value within a pattern: the (possibly
// clipped) Part visible in the current query, the full Whole extent the
// event would occupy unclipped, and the attached Data payload.
//
// Invariant: Part is contained in Whole ∩ [queried from, to) whenever both
// are present.
type Event struct {
	Part  TimeSpan
	Whole TimeSpan
	Data  VoiceData
}

// HasOnset reports whether Part.Begin == Whole.Begin, i.e. this event's
// visible part includes the moment the underlying value actually starts.
// Several combinators (e.g. Struct, Ply) only care about onset events.
func (e Event) HasOnset() bool {
	return e.Part.Begin.Equal(e.Whole.Begin)
}

// WithSpans returns a copy of e with Part and Whole replaced.
func (e Event) WithSpans(part, whole TimeSpan) Event {
	return Event{Part: part, Whole: whole, Data: e.Data}
}

// WithData returns a copy of e with Data replaced.
func (e Event) WithData(data VoiceData) Event {
	return Event{Part: e.Part, Whole: e.Whole, Data: data}
}

// Shift translates both Part and Whole by offset.
func (e Event) Shift(offset Rational) Event {
	return Event{Part: e.Part.Shift(offset), Whole: e.Whole.Shift(offset), Data: e.Data}
}

// Scale multiplies both Part and Whole endpoints by factor.
func (e Event) Scale(factor Rational) Event {
	return Event{Part: e.Part.Scale(factor), Whole: e.Whole.Scale(factor), Data: e.Data}
}

// ClipPartTo clips e.Part to span, returning (clipped event, true), or
// (zero value, false) if they don't overlap. Whole is preserved unchanged,
// per the bind/join clipping rule (spec §4.6).
func (e Event) ClipPartTo(span TimeSpan) (Event, bool) {
	part, ok := e.Part.ClipTo(span)
	if !ok {
		return Event{}, false
	}
	return Event{Part: part, Whole: e.Whole, Data: e.Data}, true
}

// SortEventsByPartBegin sorts events in place by Part.Begin, the ordering
// Stack (and any combinator documented as producing a stable result) must
// guarantee.
func SortEventsByPartBegin(events []Event) {
	// Insertion sort: event lists from a single query are small and this
	// keeps the comparator simple and allocation-free.
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j].Part.Begin.LessThan(events[j-1].Part.Begin); j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
}

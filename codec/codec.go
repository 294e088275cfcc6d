// Package codec implements the static pattern persistence format (spec §6):
// a StaticStrudelPattern — a pre-queried, materialized list of events — as
// JSON with keys `{ "events": [ { begin, end, dur, data } ] }`. Rationals
// are serialized as doubles and absent optional fields are omitted
// (explicitNulls = false), grounded on the teacher's codec package
// (datalog/codec/l85.go) for the encode/decode-pair-plus-round-trip-test
// shape, though the wire format itself is JSON rather than L85 since the
// spec calls for a host-readable persistence format, not a sortable key
// encoding.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/wbrown/cycles"
)

// EventJSON is the wire shape of one persisted event. dur is redundant with
// end-begin but is carried explicitly because hosts reading the format
// without a Rational type (e.g. a JS player) should not need to recompute
// it.
type EventJSON struct {
	Begin float64    `json:"begin"`
	End   float64    `json:"end"`
	Dur   float64    `json:"dur"`
	Data  *DataJSON  `json:"data,omitempty"`
}

// DataJSON is the wire shape of a VoiceData payload.
type DataJSON struct {
	Note   interface{}            `json:"note,omitempty"`
	Value  interface{}            `json:"value,omitempty"`
	Speed  interface{}            `json:"speed,omitempty"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// StaticStrudelPattern is a materialized, already-queried event list: the
// result of one queryArc call frozen for persistence or transport, not a
// live Pattern (it cannot be re-queried over a different arc).
type StaticStrudelPattern struct {
	Events []EventJSON `json:"events"`
}

// FromEvents converts a queryArc result into a StaticStrudelPattern,
// preserving event order exactly (spec §6: "round-trip must preserve event
// count and event ordering").
func FromEvents(events []cycles.Event) StaticStrudelPattern {
	out := StaticStrudelPattern{Events: make([]EventJSON, len(events))}
	for i, ev := range events {
		out.Events[i] = EventJSON{
			Begin: ev.Part.Begin.Float64(),
			End:   ev.Part.End.Float64(),
			Dur:   ev.Part.Duration().Float64(),
			Data:  dataToJSON(ev.Data),
		}
	}
	return out
}

func dataToJSON(d cycles.VoiceData) *DataJSON {
	if d.Note == nil && d.Value == nil && d.Speed == nil && len(d.Params) == 0 {
		return nil
	}
	dj := &DataJSON{}
	if d.Note != nil {
		dj.Note = voiceValueToJSON(d.Note)
	}
	if d.Value != nil {
		dj.Value = voiceValueToJSON(d.Value)
	}
	if d.Speed != nil {
		dj.Speed = voiceValueToJSON(d.Speed)
	}
	if len(d.Params) > 0 {
		dj.Params = make(map[string]interface{}, len(d.Params))
		for k, v := range d.Params {
			dj.Params[k] = voiceValueToJSON(v)
		}
	}
	return dj
}

func voiceValueToJSON(v cycles.VoiceValue) interface{} {
	switch x := v.(type) {
	case cycles.NumValue:
		f, _ := x.AsDouble()
		return f
	case cycles.BoolValue:
		return bool(x)
	default:
		return x.String()
	}
}

func voiceValueFromJSON(v interface{}) cycles.VoiceValue {
	switch x := v.(type) {
	case float64:
		return cycles.NumValue(x)
	case bool:
		return cycles.BoolValue(x)
	case string:
		return cycles.StringValue(x)
	default:
		return nil
	}
}

// Encode marshals p as JSON.
func Encode(p StaticStrudelPattern) ([]byte, error) {
	return json.Marshal(p)
}

// Decode unmarshals JSON into a StaticStrudelPattern. Unknown top-level and
// nested keys are ignored, per spec §6.
func Decode(data []byte) (StaticStrudelPattern, error) {
	var p StaticStrudelPattern
	if err := json.Unmarshal(data, &p); err != nil {
		return StaticStrudelPattern{}, fmt.Errorf("cycles: codec: %w", err)
	}
	return p, nil
}

// ToEvents reconstructs a []cycles.Event from a decoded StaticStrudelPattern.
// Whole is reconstructed equal to Part since the format does not separately
// persist clipping history — a decoded pattern is assumed fully-onset
// unless the host re-derives Whole from its own bookkeeping.
func (p StaticStrudelPattern) ToEvents() []cycles.Event {
	out := make([]cycles.Event, len(p.Events))
	for i, ej := range p.Events {
		span := cycles.TimeSpan{
			Begin: cycles.NewRationalFromFloat(ej.Begin),
			End:   cycles.NewRationalFromFloat(ej.End),
		}
		var data cycles.VoiceData
		if ej.Data != nil {
			if ej.Data.Note != nil {
				data.Note = voiceValueFromJSON(ej.Data.Note)
			}
			if ej.Data.Value != nil {
				data.Value = voiceValueFromJSON(ej.Data.Value)
			}
			if ej.Data.Speed != nil {
				data.Speed = voiceValueFromJSON(ej.Data.Speed)
			}
			if len(ej.Data.Params) > 0 {
				data.Params = make(map[string]cycles.VoiceValue, len(ej.Data.Params))
				for k, v := range ej.Data.Params {
					data.Params[k] = voiceValueFromJSON(v)
				}
			}
		}
		out[i] = cycles.Event{Part: span, Whole: span, Data: data}
	}
	return out
}

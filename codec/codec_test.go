package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wbrown/cycles"
)

func span(b, e int64) cycles.TimeSpan {
	return cycles.TimeSpan{Begin: cycles.NewRationalFromInt(b), End: cycles.NewRationalFromInt(e)}
}

func TestRoundTripPreservesEventCountAndOrder(t *testing.T) {
	events := []cycles.Event{
		{Part: span(0, 1), Whole: span(0, 1), Data: cycles.NewVoiceData(cycles.StringValue("bd"))},
		{Part: span(1, 2), Whole: span(1, 2), Data: cycles.NewVoiceData(cycles.NumValue(3))},
	}
	encoded, err := Encode(FromEvents(events))
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	roundTripped := decoded.ToEvents()

	require.Len(t, roundTripped, len(events))
	require.Equal(t, "bd", roundTripped[0].Data.Value.String())
	v, err := roundTripped[1].Data.Value.AsDouble()
	require.NoError(t, err)
	require.Equal(t, float64(3), v)
}

func TestDecodeIgnoresUnknownKeys(t *testing.T) {
	raw := `{"events":[{"begin":0,"end":1,"dur":1,"data":{"value":1},"unexpected":true}],"extra":"field"}`
	p, err := Decode([]byte(raw))
	require.NoError(t, err)
	require.Len(t, p.Events, 1)
}

func TestEncodeOmitsEmptyData(t *testing.T) {
	events := []cycles.Event{{Part: span(0, 1), Whole: span(0, 1)}}
	encoded, err := Encode(FromEvents(events))
	require.NoError(t, err)
	require.NotContains(t, string(encoded), `"data":null`)
}

func TestEncodeSerializesRationalsAsDoubles(t *testing.T) {
	events := []cycles.Event{{
		Part:  cycles.TimeSpan{Begin: cycles.NewRational(1, 2), End: cycles.NewRational(3, 4)},
		Whole: cycles.TimeSpan{Begin: cycles.NewRational(1, 2), End: cycles.NewRational(3, 4)},
	}}
	p := FromEvents(events)
	require.Equal(t, 0.5, p.Events[0].Begin)
	require.Equal(t, 0.75, p.Events[0].End)
}

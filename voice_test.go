package cycles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVoiceValueTruthiness(t *testing.T) {
	falsy := []VoiceValue{
		StringValue("~"),
		StringValue("0"),
		StringValue("false"),
		StringValue(""),
		NumValue(0),
		BoolValue(false),
	}
	for _, v := range falsy {
		require.False(t, v.IsTruthy(), "expected %v (%T) to be falsy", v, v)
	}

	truthy := []VoiceValue{
		StringValue("x"),
		StringValue("bd"),
		NumValue(1),
		NumValue(-1),
		BoolValue(true),
	}
	for _, v := range truthy {
		require.True(t, v.IsTruthy(), "expected %v (%T) to be truthy", v, v)
	}
}

func TestVoiceValueConversions(t *testing.T) {
	d, err := StringValue("3.5").AsDouble()
	require.NoError(t, err)
	require.Equal(t, 3.5, d)

	i, err := StringValue("42").AsInt()
	require.NoError(t, err)
	require.Equal(t, int64(42), i)

	_, err = StringValue("bd").AsDouble()
	require.Error(t, err)
}

func TestVoiceDataCopyIsIndependent(t *testing.T) {
	d := NewVoiceData(NumValue(1)).WithParam("gain", NumValue(0.8))
	d2 := d.Copy(func(v *VoiceData) {
		v.Params["gain"] = NumValue(0.2)
	})

	gain, _ := d.Param("gain")
	gain2, _ := d2.Param("gain")
	require.Equal(t, NumValue(0.8), gain)
	require.Equal(t, NumValue(0.2), gain2)
}

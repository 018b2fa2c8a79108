package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawPointUnmarshal(t *testing.T) {
	t.Run("full tuple", func(t *testing.T) {
		var point RawPoint
		require.NoError(t, json.Unmarshal([]byte(`["2023-04-01T12:00:00+02:00",1.2,403.5]`), &point))
		require.NotNil(t, point.Value)
		assert.Equal(t, 1.2, *point.Value)
		require.NotNil(t, point.AbsoluteValue)
		assert.Equal(t, 403.5, *point.AbsoluteValue)
		assert.Equal(t, 2023, point.Timestamp.Year())
	})

	t.Run("null value", func(t *testing.T) {
		var point RawPoint
		require.NoError(t, json.Unmarshal([]byte(`["2023-04-01T12:00:00+02:00",null]`), &point))
		assert.Nil(t, point.Value)
		assert.Nil(t, point.AbsoluteValue)
	})

	t.Run("zero is a reading", func(t *testing.T) {
		var point RawPoint
		require.NoError(t, json.Unmarshal([]byte(`["2023-04-01T12:00:00+02:00",0]`), &point))
		require.NotNil(t, point.Value)
		assert.Equal(t, 0.0, *point.Value)
	})

	t.Run("rejects non tuple", func(t *testing.T) {
		var point RawPoint
		assert.Error(t, json.Unmarshal([]byte(`{"timestamp":"2023-04-01T12:00:00+02:00"}`), &point))
	})

	t.Run("rejects short tuple", func(t *testing.T) {
		var point RawPoint
		assert.Error(t, json.Unmarshal([]byte(`["2023-04-01T12:00:00+02:00"]`), &point))
	})
}

func TestRawPointSelected(t *testing.T) {
	value := 1.2
	absolute := 403.5

	assert.Equal(t, &absolute, RawPoint{Value: &value, AbsoluteValue: &absolute}.Selected())
	assert.Equal(t, &value, RawPoint{Value: &value}.Selected())
	assert.Nil(t, RawPoint{}.Selected())
}

func TestChartPointRoundTrip(t *testing.T) {
	var point ChartPoint
	require.NoError(t, json.Unmarshal([]byte(`{"x":"2023-04-01T12:00:00+02:00","y":7.3}`), &point))
	assert.Equal(t, 7.3, point.Y)

	encoded, err := json.Marshal(point)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"y":7.3`)
}

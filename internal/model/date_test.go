package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodpulse/product-metrics/internal/model"
)

func TestParseDate(t *testing.T) {
	t.Run("Should parse a calendar date", func(t *testing.T) {
		d, err := model.ParseDate("2026-03-15")

		require.NoError(t, err)
		assert.Equal(t, "2026-03-15", d.String())
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d.Time())
	})

	t.Run("Should reject malformed dates", func(t *testing.T) {
		_, err := model.ParseDate("15/03/2026")
		assert.Error(t, err)

		_, err = model.ParseDate("2026-13-01")
		assert.Error(t, err)
	})
}

func TestNewDate(t *testing.T) {
	t.Run("Should drop the time-of-day component", func(t *testing.T) {
		d := model.NewDate(time.Date(2026, 3, 15, 17, 42, 3, 0, time.UTC))
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d.Time())
	})
}

func TestDateComparisons(t *testing.T) {
	early, err := model.ParseDate("2026-01-01")
	require.NoError(t, err)
	late, err := model.ParseDate("2026-06-30")
	require.NoError(t, err)

	assert.True(t, early.Before(late))
	assert.False(t, late.Before(early))
	assert.True(t, early.Equal(early))
	assert.False(t, early.Equal(late))
}

func TestDateJSON(t *testing.T) {
	t.Run("Should marshal as YYYY-MM-DD", func(t *testing.T) {
		d, err := model.ParseDate("2026-03-15")
		require.NoError(t, err)

		b, err := json.Marshal(d)

		require.NoError(t, err)
		assert.Equal(t, `"2026-03-15"`, string(b))
	})

	t.Run("Should unmarshal from YYYY-MM-DD", func(t *testing.T) {
		var d model.Date
		err := json.Unmarshal([]byte(`"2026-03-15"`), &d)

		require.NoError(t, err)
		assert.Equal(t, "2026-03-15", d.String())
	})

	t.Run("Should reject malformed JSON dates", func(t *testing.T) {
		var d model.Date
		err := json.Unmarshal([]byte(`"yesterday"`), &d)
		assert.Error(t, err)
	})
}

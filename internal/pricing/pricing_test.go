package pricing

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	cases := []struct {
		name       string
		daily      string
		start, end Date
		qty        int
		want       string
	}{
		{"three days", "150", NewDate(2024, 6, 1), NewDate(2024, 6, 3), 1, "450"},
		{"two units", "200", NewDate(2024, 6, 1), NewDate(2024, 6, 2), 2, "800"},
		{"month boundary", "30.5", NewDate(2024, 1, 30), NewDate(2024, 2, 2), 1, "122"},
		{"leap day", "10", NewDate(2024, 2, 28), NewDate(2024, 3, 1), 3, "90"},
		{"free item", "0", NewDate(2024, 6, 1), NewDate(2024, 6, 10), 5, "0"},
		{"cents kept", "19.99", NewDate(2024, 6, 1), NewDate(2024, 6, 2), 1, "39.98"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Price(decimal.RequireFromString(tc.daily), tc.start, tc.end, tc.qty)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}
}

func TestDaysInclusiveAcrossDST(t *testing.T) {
	// tanggal disimpan UTC, jadi DST tidak berpengaruh
	assert.Equal(t, 8, DaysInclusive(NewDate(2024, 3, 8), NewDate(2024, 3, 15)))
	assert.Equal(t, 1, DaysInclusive(NewDate(2024, 3, 8), NewDate(2024, 3, 8)))
}

func TestDaysInclusiveLongRange(t *testing.T) {
	// 400 tahun Gregorian = 146097 hari, melewati batas time.Duration
	assert.Equal(t, 146098, DaysInclusive(NewDate(1700, 1, 1), NewDate(2100, 1, 1)))
	start, err := ParseDate("0001-01-01")
	require.NoError(t, err)
	end, err := ParseDate("9999-12-31")
	require.NoError(t, err)
	assert.Equal(t, 3652059, DaysInclusive(start, end))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.June, 1), d)
	assert.Equal(t, "2024-06-01", d.String())

	_, err = ParseDate("01/06/2024")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	type rec struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}
	b, err := json.Marshal(rec{Start: NewDate(2024, 6, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-06-01","end":""}`, string(b))

	var r rec
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-06-01","end":"2024-06-03"}`), &r))
	assert.True(t, r.Start.Before(r.End))
	assert.Equal(t, 2, DaysBetween(r.Start, r.End))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"June 1"}`), &r))
}

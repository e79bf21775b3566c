package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func TestToStorageDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	assert.Equal(t, "2024-03-09", ToStorageDate(time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)))
	// Late evening in a positive offset must not roll over to another day.
	assert.Equal(t, "2024-12-31", ToStorageDate(time.Date(2024, time.December, 31, 23, 30, 0, 0, tokyo)))
	assert.Equal(t, "0999-01-01", ToStorageDate(time.Date(999, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFromStorageDate(t *testing.T) {
	got, err := FromStorageDate(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = FromStorageDate(strPtr(""))
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = FromStorageDate(strPtr("2024-02-29"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), *got)

	_, err = FromStorageDate(strPtr("2023-02-29"))
	assert.Error(t, err)

	_, err = FromStorageDate(strPtr("29/02/2024"))
	assert.Error(t, err)
}

func TestStorageDateRoundTrip(t *testing.T) {
	zones := []*time.Location{time.UTC, time.FixedZone("minus11", -11*60*60), time.FixedZone("plus14", 14*60*60)}
	start := time.Date(2023, time.January, 1, 13, 45, 0, 0, time.UTC)

	for _, loc := range zones {
		for i := 0; i < 800; i += 7 {
			d := start.AddDate(0, 0, i).In(loc)
			s := ToStorageDate(d)

			back, err := FromStorageDate(&s)
			require.NoError(t, err)
			require.NotNil(t, back)
			assert.True(t, sameDay(d, *back), "round trip of %v gave %v", d, *back)
		}
	}
}

func TestFormatLongDate(t *testing.T) {
	assert.Equal(t, "March 9, 2024", FormatLongDate(time.Date(2024, time.March, 9, 22, 0, 0, 0, time.UTC)))
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:30", want: "09:30"},
		{in: " 18:05:59 ", want: "18:05"},
		{in: "24:00", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

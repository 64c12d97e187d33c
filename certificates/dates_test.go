package certificates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	today := time.Date(2024, 6, 30, 15, 45, 0, 0, time.UTC)

	tests := []struct {
		name     string
		raw      string
		want     time.Time
		fallback bool
	}{
		{"iso", "2024-03-25", day(2024, 3, 25), false},
		{"slash", "25/03/2024", day(2024, 3, 25), false},
		{"slash single digits", "5/3/2024", day(2024, 3, 5), false},
		{"iso inside text", "corso del 2024-03-25 mattina", day(2024, 3, 25), false},
		{"slash inside text", "dal 25/03/2024 al 26/03/2024", day(2024, 3, 25), false},
		{"iso wins over earlier slash", "01/02/2023 oppure 2024-03-25", day(2024, 3, 25), false},
		{"iso wins over later slash", "2024-03-25 e 01/02/2023", day(2024, 3, 25), false},
		{"invalid iso falls back to slash", "2024-13-45 25/03/2024", day(2024, 3, 25), false},
		{"no date", "next monday", day(2024, 6, 30), true},
		{"empty", "", day(2024, 6, 30), true},
		{"impossible slash date", "31/02/2024", day(2024, 6, 30), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.raw, today)
			assert.True(t, tt.want.Equal(got.Date), "got %s", got.Date)
			assert.Equal(t, tt.fallback, got.Fallback)
			if tt.fallback {
				assert.NotEmpty(t, got.Reason)
			} else {
				assert.Empty(t, got.Reason)
			}
		})
	}
}

func TestLatestDate(t *testing.T) {
	start := day(2024, 3, 25)

	assert.Equal(t, start, LatestDate(start))
	assert.Equal(t, start, LatestDate(start, "", "solo note"))
	assert.Equal(t, day(2024, 3, 28), LatestDate(start, "2024-03-25", "26/03/2024, 28/03/2024"))
	// earlier dates in the notes never move the issue date back
	assert.Equal(t, start, LatestDate(start, "01/03/2024"))
}

func TestFormatDisplayDate(t *testing.T) {
	dob := day(1980, 5, 20)
	var nilTime *time.Time

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"time", dob, "20/05/1980"},
		{"pointer", &dob, "20/05/1980"},
		{"nil pointer", nilTime, ""},
		{"nil", nil, ""},
		{"zero time", time.Time{}, ""},
		{"iso string", "1980-05-20", "20/05/1980"},
		{"iso timestamp string", "1980-05-20T00:00:00Z", "20/05/1980"},
		{"already display", "20/05/1980", "20/05/1980"},
		{"free text", "sconosciuta", "sconosciuta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDisplayDate(tt.in))
		})
	}
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryContext(query string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestParseDateRange_Open(t *testing.T) {
	dr, verr := parseDateRange(queryContext(""), time.UTC)

	require.Nil(t, verr)
	assert.Nil(t, dr.Start)
	assert.Nil(t, dr.End)
}

func TestParseDateRange_EndOfDayInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)

	dr, verr := parseDateRange(queryContext("startDate=2025-04-01&endDate=2025-04-01"), loc)

	require.Nil(t, verr)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, loc), *dr.Start)
	assert.Equal(t, time.Date(2025, 4, 1, 23, 59, 59, 999999999, loc), *dr.End)
}

func TestParseIntQuery(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 6, false},
		{"n=1", 1, false},
		{"n=60", 60, false},
		{"n=61", 0, true},
		{"n=0", 0, true},
		{"n=1.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, verr := parseIntQuery(queryContext(tt.query), "n", 6, 1, 60)
			if tt.wantErr {
				require.NotNil(t, verr)
				assert.Equal(t, "n", verr.Field)
				return
			}
			require.Nil(t, verr)
			assert.Equal(t, tt.want, got)
		})
	}
}

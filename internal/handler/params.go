package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/util"
)

const dateLayout = "2006-01-02"

// parseDay parses a YYYY-MM-DD value as midnight in loc
func parseDay(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, loc)
}

// parseDateRange reads the optional startDate and endDate query params. The
// end date is inclusive through the last instant of that day.
func parseDateRange(c echo.Context, loc *time.Location) (domain.DateRange, *ValidationError) {
	var dr domain.DateRange

	if s := c.QueryParam("startDate"); s != "" {
		start, err := parseDay(s, loc)
		if err != nil {
			return dr, &ValidationError{Field: "startDate", Message: "Must be in YYYY-MM-DD format"}
		}
		dr.Start = &start
	}
	if s := c.QueryParam("endDate"); s != "" {
		end, err := parseDay(s, loc)
		if err != nil {
			return dr, &ValidationError{Field: "endDate", Message: "Must be in YYYY-MM-DD format"}
		}
		end = util.DayEnd(end)
		dr.End = &end
	}
	if dr.Start != nil && dr.End != nil && dr.Start.After(*dr.End) {
		return dr, &ValidationError{Field: "startDate", Message: "Must not be after endDate"}
	}
	return dr, nil
}

// parseIntQuery reads an optional integer query param within [min, max]
func parseIntQuery(c echo.Context, name string, def, min, max int) (int, *ValidationError) {
	s := c.QueryParam(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ValidationError{Field: name, Message: "Must be a valid integer"}
	}
	if v < min || v > max {
		return 0, &ValidationError{Field: name, Message: "Must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max)}
	}
	return v, nil
}

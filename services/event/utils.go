package event

import (
	"strings"
	"time"

	"reward-platform/pkg/errutil"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate reads an ISO-8601 date or timestamp. Values without a zone are
// taken as UTC.
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errutil.BadRequest(field+" must be an ISO-8601 date", nil,
		errutil.WithDetails(errutil.Detail{Field: field, Message: "invalid date: " + value}))
}

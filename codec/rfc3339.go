package codec

import (
	"errors"
	"time"
)

// isoLayouts are tried in order by ISODateTime. Values without an offset are
// interpreted in the local time zone.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	time.DateOnly,
}

var errInvalidTime = errors.New("not an ISO 8601 date or datetime")

// ISODateTime parses ISO 8601 dates and datetimes into time.Time.
func ISODateTime(s string) (any, error) {
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return nil, errInvalidTime
}

// RFC3339 parses strict RFC 3339 timestamps into time.Time.
func RFC3339(s string) (any, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, errors.New("not an RFC 3339 timestamp")
	}
	return t, nil
}

// Date parses YYYY-MM-DD into a local midnight time.Time.
func Date(s string) (any, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return nil, errors.New("not a YYYY-MM-DD date")
	}
	return t, nil
}

// Duration parses Go duration syntax ("1h30m").
func Duration(s string) (any, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// FormatDateTime renders t so that ISODateTime parses it back unchanged.
func FormatDateTime(t time.Time) string { return t.Format(time.RFC3339Nano) }

// Now returns the current local time.
func Now() any { return time.Now() }

// UTCNow returns the current time in UTC.
func UTCNow() any { return time.Now().UTC() }

// Today returns local midnight of the current day.
func Today() any {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

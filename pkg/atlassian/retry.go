package atlassian

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ParseRetryAfter interprets a Retry-After header as a wait duration relative
// to now. Atlassian Cloud sends delta seconds, RFC3339 timestamps (sometimes
// minute precision) or HTTP dates depending on the service.
func ParseRetryAfter(value string, now time.Time) (time.Duration, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0, errors.New("retry-after header missing or empty")
	}

	if seconds, err := strconv.Atoi(cleaned); err == nil {
		if seconds < 0 {
			seconds = 0
		}
		return time.Duration(seconds) * time.Second, nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04Z07:00",
		time.RFC3339Nano,
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return waitUntil(parsed, now), nil
		}
	}

	if parsed, err := http.ParseTime(value); err == nil {
		return waitUntil(parsed, now), nil
	}

	return 0, errors.New("unable to parse Retry-After header")
}

func waitUntil(t, now time.Time) time.Duration {
	wait := t.Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}

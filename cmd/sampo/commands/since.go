package commands

import (
	"strconv"
	"strings"
	"time"

	"github.com/yairfalse/sampo/internal/artifact"
	sampoerrors "github.com/yairfalse/sampo/internal/errors"
)

// parseSince resolves a --since value into a cutoff time. Accepted
// forms: Go durations ("24h"), dates ("2025-11-01"), and phrases like
// "3 days ago". An empty value means no cutoff.
func parseSince(value string, now time.Time) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if d, err := time.ParseDuration(value); err == nil {
		t := now.Add(-d)
		return &t, nil
	}

	if strings.HasSuffix(value, "ago") {
		return parseAgoPhrase(value, now)
	}

	for _, format := range []string{"2006-01-02", "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(format, value); err == nil {
			return &t, nil
		}
	}

	return nil, sampoerrors.InvalidSinceError(value)
}

// parseAgoPhrase handles "2 weeks ago" style windows.
func parseAgoPhrase(value string, now time.Time) (*time.Time, error) {
	parts := strings.Fields(value)
	if len(parts) != 3 {
		return nil, sampoerrors.InvalidSinceError(value)
	}

	amount, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, sampoerrors.InvalidSinceError(value)
	}

	var unit time.Duration
	switch strings.ToLower(strings.TrimSuffix(parts[1], "s")) {
	case "minute":
		unit = time.Minute
	case "hour":
		unit = time.Hour
	case "day":
		unit = 24 * time.Hour
	case "week":
		unit = 7 * 24 * time.Hour
	case "month":
		unit = 30 * 24 * time.Hour
	default:
		return nil, sampoerrors.InvalidSinceError(value)
	}

	t := now.Add(-time.Duration(amount) * unit)
	return &t, nil
}

// filterRuns drops runs that executed before the cutoff.
func filterRuns(runs []*artifact.Run, cutoff *time.Time) []*artifact.Run {
	if cutoff == nil {
		return runs
	}
	var kept []*artifact.Run
	for _, run := range runs {
		if !run.Metadata.Timestamp.Before(*cutoff) {
			kept = append(kept, run)
		}
	}
	return kept
}

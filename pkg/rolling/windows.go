package rolling

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Window is a parsed maintenance time window.
type Window struct {
	Expression string
	schedule   cron.Schedule
}

// ParseWindow parses a Quartz style cron expression: seconds, minutes, hours,
// day of month, month, day of week and an optional year that must be "*".
// Quartz numbers days of week 1 (SUN) to 7 (SAT). A CRON_TZ= or TZ= prefix
// selects the zone the window is evaluated in; the default is UTC.
func ParseWindow(expr string) (Window, error) {
	translated, err := fromQuartz(expr)
	if err != nil {
		return Window{}, fmt.Errorf("invalid maintenance window %q: %w", expr, err)
	}
	schedule, err := parser.Parse(translated)
	if err != nil {
		return Window{}, fmt.Errorf("invalid maintenance window %q: %w", expr, err)
	}
	return Window{Expression: expr, schedule: schedule}, nil
}

// Matches reports whether now, truncated to the second, satisfies the window.
func (w Window) Matches(now time.Time) bool {
	t := now.UTC().Truncate(time.Second)
	return w.schedule.Next(t.Add(-time.Second)).Equal(t)
}

// ParseWindows parses every expression and returns the valid windows together
// with the joined errors of the invalid ones.
func ParseWindows(exprs []string) ([]Window, error) {
	windows := make([]Window, 0, len(exprs))
	var errs []error
	for _, expr := range exprs {
		w, err := ParseWindow(expr)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		windows = append(windows, w)
	}
	return windows, errors.Join(errs...)
}

// Permitted reports whether a disruptive operation may run at now. No windows
// means no restriction. Any single matching window is enough. Invalid
// expressions never match and are reported in the error, which is nil when a
// valid window matched.
func Permitted(exprs []string, now time.Time) (bool, error) {
	if len(exprs) == 0 {
		return true, nil
	}
	windows, err := ParseWindows(exprs)
	for _, w := range windows {
		if w.Matches(now) {
			return true, nil
		}
	}
	return false, err
}

func fromQuartz(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	var prefix string
	if strings.HasPrefix(expr, "CRON_TZ=") || strings.HasPrefix(expr, "TZ=") {
		tz, rest, ok := strings.Cut(expr, " ")
		if !ok {
			return "", errors.New("missing fields after time zone")
		}
		prefix = tz + " "
		expr = strings.TrimSpace(rest)
	}
	if strings.HasPrefix(expr, "@") {
		return prefix + expr, nil
	}

	fields := strings.Fields(expr)
	switch len(fields) {
	case 6:
	case 7:
		if fields[6] != "*" && fields[6] != "?" {
			return "", errors.New("year field is not supported")
		}
		fields = fields[:6]
	default:
		return "", fmt.Errorf("expected 6 or 7 fields, found %d", len(fields))
	}

	dow, err := quartzDayOfWeek(fields[5])
	if err != nil {
		return "", err
	}
	fields[5] = dow
	return prefix + strings.Join(fields, " "), nil
}

// quartzDayOfWeek shifts numeric days of week from 1-7 to 0-6. Names, steps
// and wildcards are kept.
func quartzDayOfWeek(field string) (string, error) {
	if strings.ContainsAny(field, "L#W") {
		return "", fmt.Errorf("day of week %q: L, W and # are not supported", field)
	}
	parts := strings.Split(field, ",")
	for i, part := range parts {
		rng, step, hasStep := strings.Cut(part, "/")
		bounds := strings.Split(rng, "-")
		for j, b := range bounds {
			n, err := strconv.Atoi(b)
			if err != nil {
				continue
			}
			if n < 1 || n > 7 {
				return "", fmt.Errorf("day of week %d out of range 1-7", n)
			}
			bounds[j] = strconv.Itoa(n - 1)
		}
		parts[i] = strings.Join(bounds, "-")
		if hasStep {
			parts[i] += "/" + step
		}
	}
	return strings.Join(parts, ","), nil
}

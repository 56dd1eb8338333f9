// Package schedule computes daily digest send times in a configured
// timezone.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	// Embed tzdata for environments without zoneinfo.
	_ "time/tzdata"
)

// Time conversion constants.
const (
	minutesPerHour = 60
	maxHour        = 23
)

// Static errors for schedule validation.
var (
	ErrTimeFormat     = errors.New("time must be HH:MM")
	ErrInvalidHour    = errors.New("invalid hour")
	ErrInvalidMinute  = errors.New("invalid minute")
	ErrHourOutOfRange = errors.New("hour out of range")
)

// Daily is a once-per-day send schedule at a fixed local time.
type Daily struct {
	minutes int
	loc     *time.Location
}

// NewDaily parses an HH:MM send time and an IANA timezone. An empty
// timezone means UTC.
func NewDaily(sendTime, timezone string) (*Daily, error) {
	minutes, err := parseTimeHM(sendTime)
	if err != nil {
		return nil, fmt.Errorf("invalid send time %q: %w", sendTime, err)
	}

	loc := time.UTC

	if strings.TrimSpace(timezone) != "" {
		loc, err = time.LoadLocation(strings.TrimSpace(timezone))
		if err != nil {
			return nil, fmt.Errorf("invalid timezone: %w", err)
		}
	}

	return &Daily{minutes: minutes, loc: loc}, nil
}

// Next returns the first scheduled send strictly after the given moment.
func (d *Daily) Next(after time.Time) time.Time {
	local := after.In(d.loc)

	next := time.Date(local.Year(), local.Month(), local.Day(),
		d.minutes/minutesPerHour, d.minutes%minutesPerHour, 0, 0, d.loc)

	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}

	return next
}

// Location returns the schedule's timezone.
func (d *Daily) Location() *time.Location {
	return d.loc
}

func parseTimeHM(value string) (int, error) {
	normalized, err := NormalizeTimeHM(value)
	if err != nil {
		return 0, err
	}

	hour, err := strconv.Atoi(normalized[:2])
	if err != nil {
		return 0, ErrInvalidHour
	}

	minute, err := strconv.Atoi(normalized[3:])
	if err != nil {
		return 0, ErrInvalidMinute
	}

	return hour*minutesPerHour + minute, nil
}

// NormalizeTimeHM accepts H:MM or HH:MM and returns HH:MM.
func NormalizeTimeHM(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrTimeFormat
	}

	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return "", ErrTimeFormat
	}

	if len(parts[1]) != 2 {
		return "", ErrTimeFormat
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", ErrInvalidHour
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", ErrInvalidMinute
	}

	if hour > maxHour || hour < 0 {
		return "", ErrHourOutOfRange
	}

	if minute < 0 || minute >= minutesPerHour {
		return "", ErrInvalidMinute
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// Package task implements the reminder task list: tasks with a time of day,
// a completion flag and a locally scheduled alert, kept for 24 hours.
package task

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyText   = errors.New("task text is empty")
	ErrInvalidTime = errors.New("invalid time of day")
)

// Task is one reminder. ID is the creation time in epoch milliseconds.
type Task struct {
	ID             string  `json:"id"`
	Text           string  `json:"text"`
	Time           string  `json:"time"`
	Completed      bool    `json:"completed"`
	NotificationID *string `json:"notificationId"`
}

// String renders a task for logs.
func (t Task) String() string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s %s (%s)", mark, t.Time, t.Text, t.ID)
}

// CreatedAt decodes the creation instant from the ID.
func (t Task) CreatedAt() (time.Time, error) {
	ms, err := strconv.ParseInt(t.ID, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("task id %q is not a timestamp: %w", t.ID, err)
	}
	return time.UnixMilli(ms), nil
}

// HasReminder reports whether a live alert is attached.
func (t Task) HasReminder() bool {
	return t.NotificationID != nil && *t.NotificationID != ""
}

func (t Task) validate() error {
	if _, err := t.CreatedAt(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyText
	}
	if _, err := ParseTimeOfDay(t.Time); err != nil {
		return err
	}
	return nil
}

// TimeOfDay is a 12-hour clock reading without a date.
type TimeOfDay struct {
	Hour   int // 1-12
	Minute int // 0-59
	PM     bool
}

// ParseTimeOfDay parses "07:30 AM" style strings. The hour may have one or two
// digits, the minute must have two, and the designator is case-insensitive.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q (want hh:mm AM|PM)", ErrInvalidTime, s)
	}

	var t TimeOfDay
	switch strings.ToUpper(fields[1]) {
	case "AM":
	case "PM":
		t.PM = true
	default:
		return TimeOfDay{}, fmt.Errorf("%w: %q has no AM/PM designator", ErrInvalidTime, s)
	}

	hh, mm, ok := strings.Cut(fields[0], ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: %q (want hh:mm AM|PM)", ErrInvalidTime, s)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 1 || hour > 12 {
		return TimeOfDay{}, fmt.Errorf("%w: hour out of range in %q", ErrInvalidTime, s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: minute out of range in %q", ErrInvalidTime, s)
	}

	t.Hour = hour
	t.Minute = minute
	return t, nil
}

// Clock24 converts to a 24-hour hour and minute. 12 AM is hour 0, 12 PM stays 12.
func (t TimeOfDay) Clock24() (int, int) {
	hour := t.Hour
	switch {
	case t.PM && hour < 12:
		hour += 12
	case !t.PM && hour == 12:
		hour = 0
	}
	return hour, t.Minute
}

func (t TimeOfDay) String() string {
	period := "AM"
	if t.PM {
		period = "PM"
	}
	return fmt.Sprintf("%02d:%02d %s", t.Hour, t.Minute, period)
}

// NextOccurrence returns the next instant at or after now that shows this
// time of day on the wall clock of now's location.
func (t TimeOfDay) NextOccurrence(now time.Time) time.Time {
	hour, minute := t.Clock24()
	y, m, d := now.Date()

	at := time.Date(y, m, d, hour, minute, 0, 0, now.Location())
	if at.Before(now) {
		at = time.Date(y, m, d+1, hour, minute, 0, 0, now.Location())
	}
	return at
}

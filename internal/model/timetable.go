package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Weekdays are the days a timetable can be defined for.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// PeriodsPerDay is the number of lecture slots the create form offers.
const PeriodsPerDay = 7

// Period is one lecture slot of a day's timetable.
type Period struct {
	LectureNo int      `json:"lectureNo"`
	Subject   string   `json:"subject"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Teacher   *Teacher `json:"teacher,omitempty"`
}

// Timetable is one class section's schedule for one day.
type Timetable struct {
	ID       string     `json:"_id"`
	Program  string     `json:"program"`
	Semester FlexString `json:"semester"`
	Section  string     `json:"section"`
	Day      string     `json:"day"`
	Periods  []Period   `json:"periods"`
}

// SortPeriods orders periods by lecture number.
func (t *Timetable) SortPeriods() {
	sort.SliceStable(t.Periods, func(i, j int) bool {
		return t.Periods[i].LectureNo < t.Periods[j].LectureNo
	})
}

// PeriodInput is a period as submitted by the admin; Teacher is an account ID.
type PeriodInput struct {
	LectureNo int    `json:"lectureNo" binding:"required,min=1,max=12"`
	Subject   string `json:"subject" binding:"omitempty,max=64"`
	StartTime string `json:"startTime" binding:"omitempty,max=8"`
	EndTime   string `json:"endTime" binding:"omitempty,max=8"`
	Teacher   string `json:"teacher" binding:"omitempty,max=64"`
}

// CreateTimetableRequest is the admin timetable form.
type CreateTimetableRequest struct {
	Program  string        `json:"program" binding:"required,max=32"`
	Semester string        `json:"semester" binding:"required,max=4"`
	Section  string        `json:"section" binding:"required,max=8"`
	Day      string        `json:"day" binding:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday"`
	Periods  []PeriodInput `json:"periods" binding:"required,min=1,max=12,dive"`
}

// Normalize zero-pads period clock times to HH:MM.
func (r *CreateTimetableRequest) Normalize() error {
	for i := range r.Periods {
		start, err := NormalizeClock(r.Periods[i].StartTime)
		if err != nil {
			return fmt.Errorf("period %d start: %w", r.Periods[i].LectureNo, err)
		}
		end, err := NormalizeClock(r.Periods[i].EndTime)
		if err != nil {
			return fmt.Errorf("period %d end: %w", r.Periods[i].LectureNo, err)
		}
		r.Periods[i].StartTime = start
		r.Periods[i].EndTime = end
	}
	return nil
}

// NormalizeClock turns "9:5" into "09:05". Empty input stays empty.
func NormalizeClock(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	h, m, ok := strings.Cut(raw, ":")
	if !ok {
		return "", fmt.Errorf("invalid time %q", raw)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || hours < 0 || hours > 23 {
		return "", fmt.Errorf("invalid hour in %q", raw)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil || minutes < 0 || minutes > 59 {
		return "", fmt.Errorf("invalid minute in %q", raw)
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes), nil
}

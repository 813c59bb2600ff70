package reminder

import (
	"sort"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/assignment"
	"github.com/tonyorjime-cloud/WorNest/internal/leave"
)

const (
	CategoryOverdue  = "OVERDUE"
	CategoryDueToday = "DUE_TODAY"
	CategoryDueSoon  = "DUE_SOON"

	// DefaultLeadWindowDays is how many days before the due date an
	// assignment starts showing up as DUE_SOON.
	DefaultLeadWindowDays = 3
)

// Reminder is a derived view, recomputed fresh on every evaluation.
// Nothing here is persisted; suppression state can therefore never go
// stale once a leave interval ends.
type Reminder struct {
	AssignmentID string
	StaffID      string
	Title        string
	ProjectCode  string
	Category     string
	DueDate      time.Time
	DaysOverdue  int
	Suppressed   bool
}

var categoryOrder = map[string]int{
	CategoryOverdue:  0,
	CategoryDueToday: 1,
	CategoryDueSoon:  2,
}

// Evaluate computes the reminder list for one evaluation date. Only
// open assignments produce reminders; a reminder is suppressed, not
// dropped, when its staff member has approved leave containing the
// evaluation date. The result is ordered OVERDUE, DUE_TODAY, DUE_SOON,
// then ascending due date, then staff id.
func Evaluate(assignments []assignment.Assignment, approvedLeaves []leave.Leave, evalDate time.Time, leadWindowDays int) []Reminder {
	if leadWindowDays < 0 {
		leadWindowDays = 0
	}
	eval := truncateToDay(evalDate)

	onLeave := make(map[string]struct{})
	for _, l := range approvedLeaves {
		if l.Status != leave.StatusApproved {
			continue
		}
		if !eval.Before(truncateToDay(l.StartDate)) && !eval.After(truncateToDay(l.EndDate)) {
			onLeave[l.StaffID.String()] = struct{}{}
		}
	}

	reminders := make([]Reminder, 0, len(assignments))
	for _, a := range assignments {
		if a.Status != assignment.StatusOpen {
			continue
		}
		due := truncateToDay(a.DueDate)
		daysUntil := int(due.Sub(eval).Hours() / 24)

		var category string
		switch {
		case daysUntil < 0:
			category = CategoryOverdue
		case daysUntil == 0:
			category = CategoryDueToday
		case daysUntil <= leadWindowDays:
			category = CategoryDueSoon
		default:
			continue
		}

		staffID := a.StaffID.String()
		r := Reminder{
			AssignmentID: a.ID.String(),
			StaffID:      staffID,
			Title:        a.Title,
			ProjectCode:  a.ProjectCode,
			Category:     category,
			DueDate:      due,
		}
		if daysUntil < 0 {
			r.DaysOverdue = -daysUntil
		}
		if _, absent := onLeave[staffID]; absent {
			r.Suppressed = true
		}
		reminders = append(reminders, r)
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		if categoryOrder[reminders[i].Category] != categoryOrder[reminders[j].Category] {
			return categoryOrder[reminders[i].Category] < categoryOrder[reminders[j].Category]
		}
		if !reminders[i].DueDate.Equal(reminders[j].DueDate) {
			return reminders[i].DueDate.Before(reminders[j].DueDate)
		}
		return reminders[i].StaffID < reminders[j].StaffID
	})
	return reminders
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package calendar

import (
	"time"

	ics "github.com/arran4/golang-ical"
)

const productID = "-//vitdaa//staff shifts//EN"

// Event is a calendar-agnostic entry; callers map their own records onto it.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Cancelled   bool
	Tentative   bool
	UpdatedAt   time.Time
}

// Build renders events as an RFC 5545 VCALENDAR document.
func Build(name string, events []Event, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, e := range events {
		ev := cal.AddEvent(e.UID)
		ev.SetDtStampTime(now.UTC())
		if !e.UpdatedAt.IsZero() {
			ev.SetModifiedAt(e.UpdatedAt.UTC())
		}
		ev.SetStartAt(e.Start.UTC())
		ev.SetEndAt(e.End.UTC())
		ev.SetSummary(e.Summary)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		switch {
		case e.Cancelled:
			ev.SetStatus(ics.ObjectStatusCancelled)
		case e.Tentative:
			ev.SetStatus(ics.ObjectStatusTentative)
		default:
			ev.SetStatus(ics.ObjectStatusConfirmed)
		}
	}

	return cal.Serialize()
}

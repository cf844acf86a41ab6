package calendar

import (
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/autoelectric/shopsvc"
)

// Business hours covered by the availability grid. Slot h runs from h:00 to
// h+1:00 for OpenHour <= h < CloseHour.
const (
	OpenHour  = 8
	CloseHour = 18
)

// Busy is an occupied range of whole hours, [Start, End).
type Busy struct {
	Start int
	End   int
}

func (b Busy) covers(hour int) bool {
	return hour >= b.Start && hour < b.End
}

// DefaultSlots is the grid with every slot open.
func DefaultSlots() []shopsvc.Slot {
	return Resolve(nil)
}

// Resolve builds the hourly grid and closes every slot that falls inside one
// of the busy ranges.
func Resolve(busy []Busy) []shopsvc.Slot {
	slots := make([]shopsvc.Slot, 0, CloseHour-OpenHour)
	for hour := OpenHour; hour < CloseHour; hour++ {
		available := true
		for _, b := range busy {
			if b.covers(hour) {
				available = false
				break
			}
		}
		slots = append(slots, shopsvc.Slot{
			Start:     fmt.Sprintf("%02d:00", hour),
			End:       fmt.Sprintf("%02d:00", hour+1),
			Available: available,
		})
	}
	return slots
}

// busyHours turns calendar events into busy ranges using the hour of day in
// loc. Minutes are dropped, so an event from 9:30 to 10:15 only occupies the
// 9:00 slot. All-day events carry no dateTime and are ignored. Only the
// hour of day is kept, so an event running past midnight or starting the day
// before ends up with End <= Start and closes no slot.
func busyHours(events []*calendar.Event, loc *time.Location) []Busy {
	var busy []Busy
	for _, ev := range events {
		if ev == nil || ev.Start == nil || ev.End == nil {
			continue
		}
		start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, ev.End.DateTime)
		if err != nil {
			continue
		}
		busy = append(busy, Busy{
			Start: start.In(loc).Hour(),
			End:   end.In(loc).Hour(),
		})
	}
	return busy
}

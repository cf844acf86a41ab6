package calendar

import (
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
)

func TestDefaultSlotsGrid(t *testing.T) {
	slots := DefaultSlots()
	if len(slots) != 10 {
		t.Fatalf("got %d slots, want 10", len(slots))
	}
	if slots[0].Start != "08:00" || slots[9].End != "18:00" {
		t.Errorf("grid spans %s-%s, want 08:00-18:00", slots[0].Start, slots[9].End)
	}
	for i, s := range slots {
		if !s.Available {
			t.Errorf("slot %d not available", i)
		}
		if s.Start >= s.End {
			t.Errorf("slot %d: start %s not before end %s", i, s.Start, s.End)
		}
		if i > 0 && slots[i-1].End != s.Start {
			t.Errorf("slot %d does not follow slot %d", i, i-1)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		busy []Busy
		want []string // starts of unavailable slots
	}{
		{"no events", nil, nil},
		{"nine to eleven", []Busy{{9, 11}}, []string{"09:00", "10:00"}},
		{"empty range", []Busy{{12, 12}}, nil},
		{"before opening", []Busy{{6, 8}}, nil},
		{"straddles opening", []Busy{{7, 9}}, []string{"08:00"}},
		{"last hour", []Busy{{17, 18}}, []string{"17:00"}},
		{"overlapping", []Busy{{9, 11}, {10, 12}}, []string{"09:00", "10:00", "11:00"}},
		{"ends before start", []Busy{{23, 1}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := Resolve(tt.busy)
			if len(slots) != 10 {
				t.Fatalf("got %d slots, want 10", len(slots))
			}

			var got []string
			for _, s := range slots {
				if !s.Available {
					got = append(got, s.Start)
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("unavailable = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("unavailable = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestBusyHoursDropsMinutes(t *testing.T) {
	loc, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	events := []*calendar.Event{
		{
			Start: &calendar.EventDateTime{DateTime: "2024-06-01T09:30:00-06:00"},
			End:   &calendar.EventDateTime{DateTime: "2024-06-01T10:15:00-06:00"},
		},
		// Same instant expressed in UTC.
		{
			Start: &calendar.EventDateTime{DateTime: "2024-06-01T20:00:00Z"},
			End:   &calendar.EventDateTime{DateTime: "2024-06-01T21:00:00Z"},
		},
		// All-day events have no dateTime.
		{
			Start: &calendar.EventDateTime{Date: "2024-06-01"},
			End:   &calendar.EventDateTime{Date: "2024-06-02"},
		},
		nil,
	}

	busy := busyHours(events, loc)
	want := []Busy{{9, 10}, {14, 15}}
	if len(busy) != len(want) {
		t.Fatalf("busy = %v, want %v", busy, want)
	}
	for i := range want {
		if busy[i] != want[i] {
			t.Errorf("busy[%d] = %v, want %v", i, busy[i], want[i])
		}
	}
}

func TestBusyHoursAcrossMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	events := []*calendar.Event{
		{
			Start: &calendar.EventDateTime{DateTime: "2024-06-01T17:00:00-06:00"},
			End:   &calendar.EventDateTime{DateTime: "2024-06-02T01:00:00-06:00"},
		},
		{
			Start: &calendar.EventDateTime{DateTime: "2024-05-31T22:00:00-06:00"},
			End:   &calendar.EventDateTime{DateTime: "2024-06-01T10:00:00-06:00"},
		},
	}

	busy := busyHours(events, loc)
	want := []Busy{{17, 1}, {22, 10}}
	if len(busy) != len(want) || busy[0] != want[0] || busy[1] != want[1] {
		t.Fatalf("busy = %v, want %v", busy, want)
	}

	// Hour-of-day ranges that wrap cover nothing.
	for _, s := range Resolve(busy) {
		if !s.Available {
			t.Errorf("slot %s closed by a wrapped range", s.Start)
		}
	}
}

// Package worldclock reports the time in the major FX session centres.
package worldclock

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// Zone is a trading centre and its session hours in local time.
type Zone struct {
	Label     string
	Location  string
	OpenHour  int
	CloseHour int
}

// Sessions are the centres shown by default, in the order they open.
var Sessions = []Zone{
	{Label: "Sydney", Location: "Australia/Sydney", OpenHour: 7, CloseHour: 16},
	{Label: "Tokyo", Location: "Asia/Tokyo", OpenHour: 9, CloseHour: 18},
	{Label: "London", Location: "Europe/London", OpenHour: 8, CloseHour: 17},
	{Label: "New York", Location: "America/New_York", OpenHour: 8, CloseHour: 17},
}

type Reading struct {
	Label string `json:"label"`
	Time  string `json:"time"`
	Date  string `json:"date"`
	Open  bool   `json:"open"`
}

// Clock formats readings for a fixed set of zones. Locations are resolved
// once, when the clock is built.
type Clock struct {
	zones []Zone
	locs  []*time.Location
	local bool
}

// New resolves every zone. When withLocal is set, the host's zone is listed
// first as "Local".
func New(zones []Zone, withLocal bool) (*Clock, error) {
	c := &Clock{local: withLocal}
	for _, z := range zones {
		loc, err := time.LoadLocation(z.Location)
		if err != nil {
			return nil, fmt.Errorf("load zone %s: %w", z.Location, err)
		}
		c.zones = append(c.zones, z)
		c.locs = append(c.locs, loc)
	}
	return c, nil
}

// Readings returns one reading per zone for the instant now.
func (c *Clock) Readings(now time.Time) []Reading {
	out := make([]Reading, 0, len(c.zones)+1)
	if c.local {
		l := now.Local()
		out = append(out, Reading{Label: "Local", Time: l.Format("15:04:05"), Date: l.Format("Mon 02 Jan")})
	}
	for i, z := range c.zones {
		t := now.In(c.locs[i])
		out = append(out, Reading{
			Label: z.Label,
			Time:  t.Format("15:04:05"),
			Date:  t.Format("Mon 02 Jan"),
			Open:  z.isOpen(t),
		})
	}
	return out
}

func (z Zone) isOpen(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	h := t.Hour()
	return h >= z.OpenHour && h < z.CloseHour
}

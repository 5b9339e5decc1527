// Package timetable counts, for every weekday and hour, how often each point of interest was occupied.
package timetable

import (
	"time"

	"github.com/rotblauer/catspots/conceptual"
	"github.com/rotblauer/catspots/types/inference"
	"github.com/rotblauer/catspots/types/staypoint"
)

type cell struct {
	order  []conceptual.InferenceID
	counts map[conceptual.InferenceID]int
}

func (c *cell) add(id conceptual.InferenceID, n int) {
	if c.counts == nil {
		c.counts = make(map[conceptual.InferenceID]int)
	}
	if _, ok := c.counts[id]; !ok {
		c.order = append(c.order, id)
	}
	c.counts[id] += n
}

// Timetable is a 7x24 grid of visit counts per POI.
// Weekdays follow time.Weekday, Sunday is 0.
type Timetable struct {
	loc   *time.Location
	cells [7][24]cell
}

func New(loc *time.Location) *Timetable {
	if loc == nil {
		loc = time.Local
	}
	return &Timetable{loc: loc}
}

// Build makes a timetable from the on-site intervals of the given POIs.
func Build(pois []inference.Inference, loc *time.Location) *Timetable {
	tt := New(loc)
	for _, poi := range pois {
		tt.Add(poi.ID, poi.OnSite)
	}
	return tt
}

// Add counts every hour touched by the intervals: starting at each interval's start,
// the hours start, start+1h, ... before the end are counted in their local weekday and hour.
func (tt *Timetable) Add(id conceptual.InferenceID, intervals []staypoint.Interval) {
	for _, iv := range intervals {
		for t := iv.Start; t.Before(iv.End); t = t.Add(time.Hour) {
			lt := t.In(tt.loc)
			tt.cells[lt.Weekday()][lt.Hour()].add(id, 1)
		}
	}
}

// Count returns the visits to the POI at weekday and hour.
func (tt *Timetable) Count(weekday time.Weekday, hour int, id conceptual.InferenceID) int {
	if !valid(weekday, hour) {
		return 0
	}
	return tt.cells[weekday][hour].counts[id]
}

// MostFrequent returns the POI visited most often at weekday and hour.
// Ties go to the POI first seen in that slot.
func (tt *Timetable) MostFrequent(weekday time.Weekday, hour int) (id conceptual.InferenceID, count int, ok bool) {
	if !valid(weekday, hour) {
		return "", 0, false
	}
	c := &tt.cells[weekday][hour]
	for _, candidate := range c.order {
		if n := c.counts[candidate]; n > count {
			id, count, ok = candidate, n, true
		}
	}
	return id, count, ok
}

// Predict returns the POI most likely to be visited at the given time.
func (tt *Timetable) Predict(at time.Time) (id conceptual.InferenceID, count int, ok bool) {
	lt := at.In(tt.loc)
	return tt.MostFrequent(lt.Weekday(), lt.Hour())
}

// Entries flattens the timetable by weekday, then hour, then first-seen POI.
func (tt *Timetable) Entries() []inference.TimetableEntry {
	out := make([]inference.TimetableEntry, 0)
	for d := range tt.cells {
		for h := range tt.cells[d] {
			c := &tt.cells[d][h]
			for _, id := range c.order {
				out = append(out, inference.TimetableEntry{
					Weekday: time.Weekday(d),
					Hour:    h,
					PoiID:   id,
					Count:   c.counts[id],
				})
			}
		}
	}
	return out
}

// FromEntries restores a timetable from its entries.
// Entries outside the grid are ignored.
func FromEntries(entries []inference.TimetableEntry, loc *time.Location) *Timetable {
	tt := New(loc)
	for _, e := range entries {
		if !valid(e.Weekday, e.Hour) {
			continue
		}
		tt.cells[e.Weekday][e.Hour].add(e.PoiID, e.Count)
	}
	return tt
}

func (tt *Timetable) Location() *time.Location {
	return tt.loc
}

func valid(weekday time.Weekday, hour int) bool {
	return weekday >= time.Sunday && weekday <= time.Saturday && hour >= 0 && hour < 24
}

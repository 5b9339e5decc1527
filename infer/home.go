package infer

import (
	"time"

	"github.com/rotblauer/catspots/geo/score"
	"github.com/rotblauer/catspots/types/staypoint"
)

// HomeScore counts the nights (midnight to 4am) spent at the cluster.
// Every full 28 hours of a visit surely contain a night. A shorter remainder counts
// if it ends past 4am on a later date than it starts.
func HomeScore(c staypoint.Cluster, loc *time.Location) float64 {
	total := 0.0
	for _, iv := range c.OnSite {
		start, end := iv.Start.In(loc), iv.End.In(loc)
		for end.Sub(start) >= 28*time.Hour {
			total++
			start = start.AddDate(0, 0, 1)
		}
		if !sameDate(start, end) && end.Hour() > 4 {
			total++
		}
	}
	return total
}

// WorkScore counts the workdays spent at the cluster, in halves:
// 10am to 12pm is the morning, 2pm to 4pm the afternoon, on Mon-Fri.
// Visits are checked day by day. On a day the visit continues past,
// only its start hour on that day is checked.
func WorkScore(c staypoint.Cluster, loc *time.Location) float64 {
	total := 0.0
	for _, iv := range c.OnSite {
		start, end := iv.Start.In(loc), iv.End.In(loc)
		for start.Before(end) {
			weekday := score.IsWeekday(start.Weekday())
			if sameDate(start, end) {
				if weekday {
					if start.Hour() <= 10 && end.Hour() >= 12 {
						total += 0.5
					}
					if start.Hour() <= 14 && end.Hour() >= 16 {
						total += 0.5
					}
				}
			} else if weekday {
				if start.Hour() <= 10 {
					total += 0.5
				}
				if start.Hour() <= 14 {
					total += 0.5
				}
			}
			y, m, d := start.Date()
			start = time.Date(y, m, d+1, 0, 0, 1, 0, loc)
		}
	}
	return total
}

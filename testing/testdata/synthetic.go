package testdata

import (
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/catspots/common"
	"github.com/rotblauer/catspots/types/trajectory"
)

// Fixed places used by the synthetic trajectories.
var (
	PlaceHome = orb.Point{8.5417, 47.3769}
	PlaceWork = orb.Point{8.5481, 47.3667}
	PlaceGym  = orb.Point{8.5301, 47.3897}
	PlaceCafe = orb.Point{8.5160, 47.3740}
)

// Offset moves pt by the given meters east and north.
func Offset(pt orb.Point, east, north float64) orb.Point {
	dLat, dLon := common.DegreesForMeters(pt, 1)
	return orb.Point{pt.Lon() + east*dLon, pt.Lat() + north*dLat}
}

// Stay returns fixes every interval from start for dur, spread within jitter meters of pt.
// The spread is deterministic.
func Stay(pt orb.Point, start time.Time, dur, every time.Duration, jitter float64) []trajectory.Point {
	var out []trajectory.Point
	for k, t := 0, start; !t.After(start.Add(dur)); k, t = k+1, t.Add(every) {
		a := float64(k) * 137.5 * math.Pi / 180
		r := jitter * float64(k%5) / 4
		p := Offset(pt, r*math.Cos(a), r*math.Sin(a))
		out = append(out, trajectory.Point{Lat: p.Lat(), Lng: p.Lon(), Time: t})
	}
	return out
}

// Travel returns fixes every interval moving in a straight line from a to b.
// Neither endpoint is included.
func Travel(a, b orb.Point, start time.Time, dur, every time.Duration) []trajectory.Point {
	var out []trajectory.Point
	steps := int(dur / every)
	for k := 1; k < steps; k++ {
		f := float64(k) / float64(steps)
		out = append(out, trajectory.Point{
			Lat:  a.Lat() + f*(b.Lat()-a.Lat()),
			Lng:  a.Lon() + f*(b.Lon()-a.Lon()),
			Time: start.Add(time.Duration(k) * every),
		})
	}
	return out
}

// HomeWorkHome is about a day of a cat: the evening and night at home,
// a working day at work, and the next evening at home again.
// Day is the date of the first evening.
func HomeWorkHome(day time.Time) []trajectory.Point {
	loc := day.Location()
	d := func(dd, h, m int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day()+dd, h, m, 0, 0, loc)
	}
	var pts []trajectory.Point
	pts = append(pts, Stay(PlaceHome, d(0, 18, 0), 14*time.Hour+30*time.Minute, 5*time.Minute, 10)...)
	pts = append(pts, Travel(PlaceHome, PlaceWork, d(1, 8, 30), 30*time.Minute, time.Minute)...)
	pts = append(pts, Stay(PlaceWork, d(1, 9, 0), 8*time.Hour, 5*time.Minute, 10)...)
	pts = append(pts, Travel(PlaceWork, PlaceHome, d(1, 17, 0), 30*time.Minute, time.Minute)...)
	pts = append(pts, Stay(PlaceHome, d(1, 17, 30), 5*time.Hour, 5*time.Minute, 10)...)
	return pts
}

// Weeks repeats a weekly pattern: home at night, work on weekdays,
// the gym on Monday and Wednesday evenings and a cafe on Saturday mornings.
// Start should be a Monday at 00:00.
func Weeks(start time.Time, weeks int) []trajectory.Point {
	var pts []trajectory.Point
	last := PlaceHome
	at := start
	move := func(to orb.Point, t time.Time) {
		if to != last {
			pts = append(pts, Travel(last, to, at, t.Sub(at), 5*time.Minute)...)
			last = to
		}
		at = t
	}
	stay := func(pt orb.Point, until time.Time) {
		pts = append(pts, Stay(pt, at, until.Sub(at), 10*time.Minute, 10)...)
		at = until.Add(time.Minute)
	}
	for day := 0; day < weeks*7; day++ {
		date := start.AddDate(0, 0, day)
		h := func(hh, mm int) time.Time {
			return time.Date(date.Year(), date.Month(), date.Day(), hh, mm, 0, 0, date.Location())
		}
		weekday := date.Weekday()
		if weekday >= time.Monday && weekday <= time.Friday {
			stay(PlaceHome, h(8, 0))
			move(PlaceWork, h(8, 30))
			stay(PlaceWork, h(17, 0))
			if weekday == time.Monday || weekday == time.Wednesday {
				move(PlaceGym, h(17, 30))
				stay(PlaceGym, h(19, 0))
				move(PlaceHome, h(19, 30))
			} else {
				move(PlaceHome, h(17, 30))
			}
		} else if weekday == time.Saturday {
			stay(PlaceHome, h(10, 0))
			move(PlaceCafe, h(10, 30))
			stay(PlaceCafe, h(12, 0))
			move(PlaceHome, h(12, 30))
		}
		stay(PlaceHome, h(23, 58))
	}
	return pts
}

package rgeo

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	srgeo "github.com/sams96/rgeo"
)

func TestFormatLocation(t *testing.T) {
	cases := []struct {
		loc  srgeo.Location
		want string
	}{
		{srgeo.Location{City: "Zürich", Province: "Zürich", CountryLong: "Switzerland"}, "Zürich, Switzerland"},
		{srgeo.Location{Country: "Switzerland"}, "Switzerland"},
		{srgeo.Location{City: "Bern", Country: "Switzerland", CountryLong: "Swiss Confederation"}, "Bern, Switzerland"},
		{srgeo.Location{City: "Minneapolis", County: "Hennepin", Province: "Minnesota", CountryLong: "United States of America"},
			"Minneapolis, Hennepin, Minnesota, United States of America"},
		{srgeo.Location{}, ""},
	}
	for _, c := range cases {
		if got := FormatLocation(c.loc); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}

func TestGeocoder_Address(t *testing.T) {
	g, err := New(Countries10)
	if err != nil {
		t.Fatal(err)
	}
	zurich := orb.Point{8.5417, 47.3769}
	addr, err := g.Address(zurich)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(addr, "Switzerland") {
		t.Errorf("unexpected address %q", addr)
	}
	// A point a few meters away hits the same cache entry.
	if _, err := g.Address(orb.Point{8.54171, 47.37691}); err != nil {
		t.Fatal(err)
	}
	if g.Cached() != 1 {
		t.Errorf("expected 1 cached lookup, got %d", g.Cached())
	}
	// Open sea.
	if _, err := g.Address(orb.Point{-30, 30}); err == nil {
		t.Error("expected an error for a point in the ocean")
	}
}

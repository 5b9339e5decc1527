package trajectory

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tidwall/gjson"
)

var ErrDecodePoint = errors.New("could not decode as point or geojson feature")

// ScanJSONMessages reads a stream of JSON messages from an io.Reader,
// and calls onEach for each decoded message.
// If the stream is encoded as a JSON array, onEach is called for each element in the array.
func ScanJSONMessages(body io.Reader, onEach func(message json.RawMessage) error) error {
	buf := bufio.NewReader(body)
	peek, err := buf.Peek(1)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewBuffer(peek))
	t, err := dec.Token()
	if err != nil {
		return err
	}
	dec = json.NewDecoder(buf)
	if t == json.Delim('[') {
		if _, err := dec.Token(); err != nil {
			return err
		}
	}
	for dec.More() {
		var msg json.RawMessage
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("decode err: %T %w", err, err)
		}
		if err := onEach(msg); err != nil {
			return err
		}
	}
	return nil
}

// DecodeJSONPointObject decodes a JSON message into points.
// Flat point objects ({"lat","lng"|"long"|"lon","time",...}), GeoJSON Point features
// and GeoJSON FeatureCollections are understood.
func DecodeJSONPointObject(msg json.RawMessage, onEach func(p Point) error) error {
	parsed := gjson.ParseBytes(msg)
	if !parsed.IsObject() {
		return fmt.Errorf("%w: not an object", ErrDecodePoint)
	}

	switch parsed.Get("type").String() {
	case "":
		p, err := pointFromFlat(parsed)
		if err != nil {
			return err
		}
		return onEach(p)
	case "FeatureCollection":
		feats := parsed.Get("features")
		if !feats.Exists() {
			return errors.New("no 'features' attribute present in feature collection")
		}
		for _, f := range feats.Array() {
			if err := DecodeJSONPointObject([]byte(f.Raw), onEach); err != nil {
				return err
			}
		}
		return nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(msg)
		if err != nil {
			return err
		}
		p, err := pointFromFeature(f)
		if err != nil {
			return err
		}
		return onEach(p)
	}
	return fmt.Errorf("%w: type=%s", ErrDecodePoint, parsed.Get("type").String())
}

// DecodePoints reads every point from r.
func DecodePoints(r io.Reader) ([]Point, error) {
	var out []Point
	err := ScanJSONMessages(r, func(msg json.RawMessage) error {
		return DecodeJSONPointObject(msg, func(p Point) error {
			out = append(out, p)
			return nil
		})
	})
	if errors.Is(err, io.EOF) {
		err = nil
	}
	return out, err
}

func pointFromFlat(parsed gjson.Result) (Point, error) {
	p := Point{}
	lat := parsed.Get("lat")
	lng := firstExisting(parsed, "lng", "long", "lon")
	if !lat.Exists() || !lng.Exists() {
		return p, fmt.Errorf("%w: missing lat/lng", ErrDecodePoint)
	}
	p.Lat, p.Lng = lat.Float(), lng.Float()
	ts, err := parseTime(firstExisting(parsed, "time", "timestamp"))
	if err != nil {
		return p, err
	}
	p.Time = ts
	if v := parsed.Get("accuracy"); v.Exists() && v.Type == gjson.Number {
		f := v.Float()
		p.Accuracy = &f
	}
	if v := parsed.Get("speed"); v.Exists() && v.Type == gjson.Number {
		f := v.Float()
		p.Speed = &f
	}
	p.SegmentStart = parsed.Get("segmentStart").Bool()
	return p, nil
}

func pointFromFeature(f *geojson.Feature) (Point, error) {
	pt, ok := f.Geometry.(orb.Point)
	if !ok {
		return Point{}, fmt.Errorf("%w: geometry %T", ErrDecodePoint, f.Geometry)
	}
	p := Point{Lat: pt.Lat(), Lng: pt.Lon()}
	raw, err := json.Marshal(f.Properties)
	if err != nil {
		return p, err
	}
	props := gjson.ParseBytes(raw)
	ts, err := parseTime(firstExisting(props, "Time", "time"))
	if err != nil {
		return p, err
	}
	p.Time = ts
	if v := firstExisting(props, "Accuracy", "accuracy"); v.Exists() && v.Type == gjson.Number {
		a := v.Float()
		p.Accuracy = &a
	}
	if v := firstExisting(props, "Speed", "speed"); v.Exists() && v.Type == gjson.Number {
		s := v.Float()
		p.Speed = &s
	}
	p.SegmentStart = firstExisting(props, "SegmentStart", "segmentStart").Bool()
	return p, nil
}

func firstExisting(r gjson.Result, paths ...string) gjson.Result {
	for _, path := range paths {
		if v := r.Get(path); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// parseTime accepts RFC3339 strings and unix seconds or milliseconds.
func parseTime(v gjson.Result) (time.Time, error) {
	switch v.Type {
	case gjson.String:
		t, err := time.Parse(time.RFC3339Nano, v.String())
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrDecodePoint, err)
		}
		return t, nil
	case gjson.Number:
		n := v.Int()
		if n > 1e11 {
			return time.UnixMilli(n), nil
		}
		return time.Unix(n, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w: missing or zero 'time' field", ErrDecodePoint)
}

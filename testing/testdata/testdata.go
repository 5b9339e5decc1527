package testdata

import (
	"context"
	"encoding/json"
	"path/filepath"
	"runtime"

	"github.com/rotblauer/catspots/catz"
	"github.com/rotblauer/catspots/stream"
	"github.com/rotblauer/catspots/types/trajectory"
)

// basepath is the root directory of this package.
var basepath string

func init() {
	_, currentFile, _, _ := runtime.Caller(0)
	basepath = filepath.Dir(currentFile)
}

// Path returns the absolute path the given relative file or directory path,
// relative to this testdata/ directory in the user's GOPATH.
// If rel is already absolute, it is returned unmodified.
// Taken from https://github.com/grpc/grpc-go/blob/master/testdata/testdata.go.
func Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}

	return filepath.Join(basepath, rel)
}

// Source_RYE20241216 is one weekday of flat NDJSON fixes at 10 minute
// intervals: home until 08:30, work 08:50 to 17:00, home from 17:30.
var Source_RYE20241216 = "./rye_20241216.ndjson"

// ReadSourcePoints reads every point from a plain or gzipped NDJSON file.
func ReadSourcePoints(ctx context.Context, path string) ([]trajectory.Point, error) {
	rc, err := catz.Open(Path(path))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	msgs, errs := stream.NDJSON[json.RawMessage](ctx, rc)
	var out []trajectory.Point
	var decodeErr error
	for msg := range msgs {
		if decodeErr != nil {
			continue
		}
		decodeErr = trajectory.DecodeJSONPointObject(msg, func(p trajectory.Point) error {
			out = append(out, p)
			return nil
		})
	}
	if err := <-errs; err != nil {
		return nil, err
	}
	return out, decodeErr
}

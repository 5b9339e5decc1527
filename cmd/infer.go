/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rotblauer/catspots/api"
	"github.com/rotblauer/catspots/catz"
	"github.com/rotblauer/catspots/common"
	"github.com/rotblauer/catspots/conceptual"
	"github.com/rotblauer/catspots/geo/clean"
	"github.com/rotblauer/catspots/infer"
	"github.com/rotblauer/catspots/metrics/influxdb"
	"github.com/rotblauer/catspots/names"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/rgeo"
	"github.com/rotblauer/catspots/stream"
	"github.com/rotblauer/catspots/types/inference"
	"github.com/rotblauer/catspots/types/trajectory"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var (
	optInferCat     string
	optInferTypes   []string
	optInferStore   bool
	optInferGeocode bool
	optInferGeoJSON bool
	optInferOut     string
	optInferClean   bool
	optInferSmooth  bool
)

// inferCmd represents the infer command
var inferCmd = &cobra.Command{
	Use:   "infer [file|-]",
	Short: "Infer a cat's places from a track file",
	Long: `Reads one cat's tracks as NDJSON (flat points or GeoJSON features,
optionally gzipped) and writes the inferred places as JSON.

The cat is named by --cat, or else by the first track's properties.Name.
With --store, the run is persisted to the cat's state in --datadir,
and later runs reuse its staypoints.

	cat tracks.json.gz | catspots infer --store -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setDefaultSlog(cmd, args)

		path := "-"
		if len(args) > 0 {
			path = args[0]
		}
		types, err := parseTypeFlags(optInferTypes)
		if err != nil {
			return err
		}
		config, err := inferenceConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-common.Interrupted():
				slog.Warn("Interrupted")
				cancel()
			case <-ctx.Done():
			}
		}()

		rc, err := catz.Open(path)
		if err != nil {
			return err
		}
		defer rc.Close()

		catID, pts, err := readTracks(ctx, rc, conceptual.CatID(optInferCat))
		if err != nil {
			return err
		}
		if optInferClean {
			n := len(pts)
			cleanConfig := params.DefaultCleanConfig()
			cleanConfig.Smooth = optInferSmooth
			pts = clean.Clean(ctx, cleanConfig, pts)
			slog.Info("Cleaned tracks", "cat", catID, "dropped", n-len(pts))
		}
		t := trajectory.New(catID, pts)
		slog.Info("Read trajectory", "cat", catID, "points", humanize.Comma(int64(t.Len())),
			"span", t.Span().Round(time.Minute))

		var geocoder api.Geocoder
		if optInferGeocode {
			g, err := rgeo.New()
			if err != nil {
				return err
			}
			geocoder = g
		}

		var res *inference.Result
		if optInferStore {
			dir, err := datadir()
			if err != nil {
				return err
			}
			c := api.NewCat(catID, dir, config)
			c.Geocoder = geocoder
			c.ExportInflux = influxdb.Enabled()
			res, err = c.Run(ctx, t, types...)
			if err != nil {
				return err
			}
		} else {
			res, err = infer.NewEngine(config).Infer(ctx, t, types...)
			if err != nil {
				return err
			}
			if geocoder != nil {
				for i := range res.Inferences {
					addr, err := geocoder.Address(res.Inferences[i].Point)
					if err != nil {
						slog.Debug("Geocode failed", "error", err)
						continue
					}
					res.Inferences[i].Address = addr
				}
			}
		}
		slog.Info("Inferred", "cat", catID, "status", res.Status,
			"staypoints", len(res.StayPoints), "inferences", len(res.Inferences))

		var out io.Writer = os.Stdout
		if optInferOut != "" {
			w, err := catz.NewGZFileWriter(optInferOut, nil)
			if err != nil {
				return err
			}
			defer func() {
				if err := w.Close(); err != nil {
					slog.Error("Failed to close output", "error", err)
				}
			}()
			out = w
		}
		return writeResult(out, res, optInferGeoJSON)
	},
}

// readTracks decodes every track read from r, in time order and without resent duplicates.
// An empty catID is taken from the first track naming one.
func readTracks(ctx context.Context, r io.Reader, catID conceptual.CatID) (conceptual.CatID, []trajectory.Point, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	meter := stream.NewMeter("tracks", 5*time.Second)
	defer meter.Stop()

	filter := trajectory.NewDuplicateFilter(params.DuplicateFilterSize)
	var pts []trajectory.Point
	msgs, errs := stream.NDJSON[json.RawMessage](ctx, r)
	for msg := range msgs {
		if catID == "" {
			if name := gjson.GetBytes(msg, "properties.Name"); name.Exists() {
				catID = conceptual.CatID(names.AliasOrSanitizedName(name.String()))
			} else if name := gjson.GetBytes(msg, "name"); name.Exists() {
				catID = conceptual.CatID(names.AliasOrSanitizedName(name.String()))
			}
		}
		err := trajectory.DecodeJSONPointObject(msg, func(p trajectory.Point) error {
			meter.Mark(p.Time, len(msg))
			if filter.Seen(p) {
				return nil
			}
			pts = append(pts, p)
			return nil
		})
		if err != nil {
			return catID, nil, err
		}
	}
	if err := <-errs; err != nil {
		return catID, nil, err
	}
	if catID == "" {
		return "", nil, errors.New("no cat name in tracks, use --cat")
	}
	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i].Time.Before(pts[j].Time)
	})
	return catID, pts, nil
}

func parseTypeFlags(ss []string) ([]inference.Type, error) {
	var out []inference.Type
	for _, s := range ss {
		typ, err := inference.ParseType(s)
		if err != nil {
			return nil, err
		}
		out = append(out, typ)
	}
	return out, nil
}

func writeResult(w io.Writer, res *inference.Result, asGeoJSON bool) error {
	enc := json.NewEncoder(w)
	if asGeoJSON {
		return enc.Encode(inference.FeatureCollection(res.Inferences))
	}
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(inferCmd)

	flags := inferCmd.Flags()
	flags.StringVar(&optInferCat, "cat", "", "Cat ID (default from tracks' properties.Name)")
	flags.StringSliceVar(&optInferTypes, "types", nil, "Inference types to run: home,work,poi (default all)")
	flags.BoolVar(&optInferStore, "store", false, "Persist the run to the cat's state and reuse stored staypoints")
	flags.BoolVar(&optInferGeocode, "geocode", false, "Decorate places with an offline reverse-geocoded address")
	flags.BoolVar(&optInferGeoJSON, "geojson", false, "Write inferences as a GeoJSON FeatureCollection")
	flags.BoolVar(&optInferClean, "clean", true, "Drop implausibly fast and teleported fixes before inference")
	flags.BoolVar(&optInferSmooth, "smooth", false, "Kalman-smooth cleaned fixes (requires --clean)")
	flags.StringVar(&optInferOut, "out", "", "Append output to this gzip file instead of stdout")
}

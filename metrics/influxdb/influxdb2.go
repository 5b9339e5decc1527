package influxdb

import (
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/types/inference"
)

// Enabled reports whether an InfluxDB export target is configured.
func Enabled() bool {
	return params.INFLUXDB_URL != "" && params.INFLUXDB_BUCKET != ""
}

// InferencePoint is one inference as an InfluxDB point, timed at its creation.
func InferencePoint(inf inference.Inference) *write.Point {
	p := influxdb2.NewPointWithMeasurement("inference").
		SetTime(inf.CreatedAt).
		AddTag("cat", inf.CatID.String()).
		AddTag("type", inf.Type.String()).
		AddTag("id", inf.ID.String()).
		AddField("latitude", inf.Point.Lat()).
		AddField("longitude", inf.Point.Lon()).
		AddField("confidence", inf.Confidence).
		AddField("evidence", inf.Evidence).
		AddField("visits", len(inf.OnSite))
	if inf.Address != "" {
		p.AddField("address", inf.Address)
	}
	for k, v := range inf.Scores {
		p.AddField("score_"+k.String(), v)
	}
	return p
}

// ExportInferences posts inferences to an InfluxDB Write API.
// The last error encountered is returned.
func ExportInferences(infs []inference.Inference) error {
	opts := influxdb2.DefaultOptions()
	opts.SetPrecision(time.Second)
	client := influxdb2.NewClientWithOptions(params.INFLUXDB_URL, params.INFLUXDB_TOKEN, opts)
	writeAPI := client.WriteAPI(params.INFLUXDB_ORG, params.INFLUXDB_BUCKET)

	// Errors must be requested before any writes for errors to be collected.
	// The chan is unbuffered and must be drained or the writer will block.
	// https://github.com/influxdata/influxdb-client-go?tab=readme-ov-file#reading-async-errors
	errorsCh := writeAPI.Errors()
	var err error
	wait := sync.WaitGroup{}
	wait.Add(1)
	go func() {
		defer wait.Done()
		for e := range errorsCh {
			if e != nil {
				err = e
			}
		}
	}()

	for _, inf := range infs {
		writeAPI.WritePoint(InferencePoint(inf))
	}
	writeAPI.Flush()
	client.Close()
	wait.Wait()
	return err
}

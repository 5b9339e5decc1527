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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rotblauer/catspots/api"
	"github.com/rotblauer/catspots/conceptual"
	"github.com/rotblauer/catspots/state"
	"github.com/spf13/cobra"
)

var optPredictAt string

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict CAT",
	Short: "Predict where a cat is at a given time",
	Long: `Looks up the place the cat most often occupied at the weekday and hour
of --at (RFC3339, default now), from the cat's stored timetable.
The cat must have been inferred with 'infer --store' first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setDefaultSlog(cmd, args)

		at := time.Now()
		if optPredictAt != "" {
			var err error
			at, err = time.Parse(time.RFC3339, optPredictAt)
			if err != nil {
				return fmt.Errorf("--at: %w", err)
			}
		}
		config, err := inferenceConfig()
		if err != nil {
			return err
		}
		dir, err := datadir()
		if err != nil {
			return err
		}

		c := api.NewCat(conceptual.CatID(args[0]), dir, config)
		inf, count, err := c.Predict(at)
		if errors.Is(err, state.ErrNoState) {
			return fmt.Errorf("no state for cat %s in %s", args[0], dir)
		}
		if err != nil {
			return err
		}
		local := at.In(config.Location)
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"at":        at,
			"weekday":   local.Weekday().String(),
			"hour":      local.Hour(),
			"count":     count,
			"inference": inf,
		})
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().StringVar(&optPredictAt, "at", "", "Time to predict for, RFC3339 (default now)")
}

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
	"log/slog"

	"github.com/rotblauer/catspots/common"
	"github.com/rotblauer/catspots/daemon/webd"
	"github.com/rotblauer/catspots/params"
	"github.com/rotblauer/catspots/rgeo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// webdCmd represents the serve command
var webdCmd = &cobra.Command{
	Use:   "webd",
	Short: "Start the webserver",
	Long: `Serves cat inference over HTTP.

POST a cat's tracks to /cats/{cat}/infer, then GET its
/inferences, /timetable and /predict.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setDefaultSlog(cmd, args)
		slog.Info("webd.Run")

		config := params.DefaultWebDaemonConfig()
		config.Address = viper.GetString("webd.address")
		config.Token = viper.GetString("webd.token")
		config.Geocode = viper.GetBool("webd.geocode")

		dir, err := datadir()
		if err != nil {
			return err
		}
		config.DataDir = dir
		config.Inference, err = inferenceConfig()
		if err != nil {
			return err
		}

		server := webd.NewWebDaemon(config)
		if config.Geocode {
			g, err := rgeo.New()
			if err != nil {
				return err
			}
			server.Geocoder = g
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			sig := <-common.Interrupted()
			slog.Warn("Received signal", "signal", sig)
			cancel()
		}()
		return server.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(webdCmd)

	defaults := params.DefaultWebDaemonConfig()

	pFlags := webdCmd.PersistentFlags()
	pFlags.String("address", defaults.Address, "HTTP address to listen on")
	pFlags.String("token", "", "Token required to run inference over HTTP (CATSPOTS_WEBD_TOKEN)")
	pFlags.Bool("geocode", defaults.Geocode, "Decorate places with an offline reverse-geocoded address")

	for _, name := range []string{"address", "token", "geocode"} {
		if err := viper.BindPFlag("webd."+name, pFlags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

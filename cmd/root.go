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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/rotblauer/catspots/params"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "catspots",
	Short: "Infer home, work and favorite places from cat tracks",
	Long: `catspots finds the places a cat lingers (staypoints), clusters them,
and labels the clusters as home, work or points of interest.
It also learns which place the cat tends to be at for each hour of the week.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	var pFlags *pflag.FlagSet = rootCmd.PersistentFlags()
	pFlags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.catspots/config.yaml)")
	pFlags.String("datadir", params.DefaultDatadirRoot, "Root directory for cat state")
	pFlags.Int("verbosity", int(slog.LevelInfo), "Log level (-4: debug, 0: info, 4: warn, 8: error)")
	pFlags.String("tz", "Local", "IANA time zone for nights, workdays and timetable hours")

	for _, name := range []string{"datadir", "verbosity", "tz"} {
		if err := viper.BindPFlag(name, pFlags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".catspots"))
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// CATSPOTS_DATADIR, CATSPOTS_WEBD_TOKEN, and so on.
	viper.SetEnvPrefix("catspots")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaultSlog(cmd *cobra.Command, args []string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(viper.GetInt("verbosity")),
	})))
}

// datadir is the configured data root, with ~ expanded.
func datadir() (string, error) {
	return homedir.Expand(viper.GetString("datadir"))
}

// inferenceConfig is the default inference config in the configured time zone.
func inferenceConfig() (*params.InferenceConfig, error) {
	config := params.DefaultInferenceConfig()
	loc, err := time.LoadLocation(viper.GetString("tz"))
	if err != nil {
		return nil, fmt.Errorf("tz: %w", err)
	}
	config.Location = loc
	return config, nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sunless-desktop/internal/config"
)

const version = "dev"

var (
	configDir string
	jsonOut   bool
	verbose   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sunlessctl",
	Short: "Maintenance tool for the Sunless desktop app",
	Long:  `Inspect and reset the shortcuts, configuration and session the Sunless desktop app stores locally.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func initConfig() {
	config.LoadEnv()
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "data directory (defaults to the app's)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func openConfig() (*config.Service, error) {
	if configDir != "" {
		return config.NewAt(configDir)
	}
	return config.New()
}

// printJSON writes data as indented JSON
func printJSON(w io.Writer, data any) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sunless-desktop/internal/shortcuts"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print where the app keeps its files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := openConfig()
		if err != nil {
			return err
		}
		paths := map[string]string{
			"data":      cfg.Dir(),
			"config":    cfg.Path(),
			"shortcuts": shortcuts.NewFileStore(cfg.Dir()).Path(),
			"log":       cfg.LogPath(),
			"backend":   cfg.BackendURL(),
		}
		if jsonOut {
			return printJSON(cmd.OutOrStdout(), paths)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, name := range []string{"data", "config", "shortcuts", "log", "backend"} {
			fmt.Fprintf(tw, "%s\t%s\n", name, paths[name])
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}

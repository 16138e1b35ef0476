package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sunless-desktop/internal/hotkeys"
	"sunless-desktop/internal/shortcuts"
)

var shortcutsCmd = &cobra.Command{
	Use:   "shortcuts",
	Short: "Inspect and change global shortcuts",
	Long:  `Changes are written to shortcuts.json and take effect the next time the app starts.`,
}

var shortcutsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the effective shortcut for every action",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		state, err := shortcuts.LoadState(store)
		if err != nil {
			logrus.WithError(err).Warn("Using defaults")
		}
		if jsonOut {
			return printJSON(cmd.OutOrStdout(), state)
		}
		return printShortcuts(cmd.OutOrStdout(), state)
	},
}

var shortcutsSetCmd = &cobra.Command{
	Use:   "set <action> <accelerator>",
	Short: "Bind an action to an accelerator such as Ctrl+Shift+S",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := shortcuts.ParseAction(args[0])
		if err != nil {
			return err
		}
		binding, err := hotkeys.ParseAccelerator(args[1])
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		state, err := shortcuts.LoadState(store)
		if err != nil {
			return err
		}
		state.Current[action] = binding.Normalized()
		if err := store.Save(state.Record()); err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{"action": action, "shortcut": binding.Normalized()}).Debug("Shortcut saved")
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", action, binding.Normalized())
		return nil
	},
}

var shortcutsResetCmd = &cobra.Command{
	Use:   "reset [action]",
	Short: "Restore one action, or all of them, to the default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			if err := store.Reset(); err != nil {
				return fmt.Errorf("failed to reset shortcuts: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All shortcuts restored to defaults")
			return nil
		}

		action, err := shortcuts.ParseAction(args[0])
		if err != nil {
			return err
		}
		state, err := shortcuts.LoadState(store)
		if err != nil {
			return err
		}
		state.Current[action] = state.Defaults[action]
		if err := store.Save(state.Record()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", action, state.Defaults[action])
		return nil
	},
}

func openStore() (*shortcuts.FileStore, error) {
	cfg, err := openConfig()
	if err != nil {
		return nil, err
	}
	return shortcuts.NewFileStore(cfg.Dir()), nil
}

func printShortcuts(w io.Writer, state shortcuts.State) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTION\tSHORTCUT\tDEFAULT")
	for _, action := range shortcuts.Actions {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", action, state.Current[action], state.Defaults[action])
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(shortcutsCmd)
	shortcutsCmd.AddCommand(shortcutsListCmd, shortcutsSetCmd, shortcutsResetCmd)
}

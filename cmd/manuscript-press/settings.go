// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-press/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and change stored preferences",
	Long: `Settings manages the local preference store: SMTP delivery settings,
a stored extraction API key, and a preferred model that is tried before
the configured candidates.`,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := settings.NewStore(loadConfig().Settings)
		if err != nil {
			return err
		}
		defer store.Close()

		all, err := store.All()
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(os.Stdout, "%s = %s\n", k, all[k])
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store one setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := settings.NewStore(loadConfig().Settings)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Set(args[0], args[1])
	},
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := settings.NewStore(loadConfig().Settings)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.Delete(args[0])
	},
}

func init() {
	settingsCmd.AddCommand(settingsListCmd, settingsSetCmd, settingsUnsetCmd)
	rootCmd.AddCommand(settingsCmd)
}

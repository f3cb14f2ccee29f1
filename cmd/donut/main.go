// Package main provides the donut binary: the HTTP game server, a headless
// simulation runner and the database migration runner.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
	contentDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "donut",
		Short: "Turn-based donut RPG",
		Long: `donut runs a turn-based RPG in which a lone adventurer fights monsters,
practices spells and levels up until defeated.`,
		SilenceUsage: true,
		Version:      version,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to configuration file (defaults and DONUT_ environment when empty)")
	root.PersistentFlags().StringVar(&opts.contentDir, "content", "", "directory overriding the embedded content YAML")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newPlayCmd(opts))
	root.AddCommand(newMigrateCmd(opts))
	return root
}

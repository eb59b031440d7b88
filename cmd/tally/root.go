package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/cli"
	"github.com/aretw0/tally/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Tally is a four-function calculator for the terminal and the network",
	Long: `Tally is a pocket calculator: digits, decimal point, sign toggle, percent,
the four operators, equals, backspace, clear entry and all clear.

Run it interactively, evaluate a key script once, or serve it over HTTP or MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("store", "", "Session store: memory, file or redis (default: redis when --redis-url is set, file otherwise)")
	rootCmd.PersistentFlags().String("session-dir", "", "Directory for the file store (default $TALLY_SESSION_DIR or .tally/sessions)")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis URL for the redis store (default $TALLY_REDIS_URL)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
}

// storeOptions merges the persistent store flags over the environment config.
func storeOptions(cmd *cobra.Command, cfg config.Config) cli.StoreOptions {
	kind, _ := cmd.Flags().GetString("store")
	dir, _ := cmd.Flags().GetString("session-dir")
	redisURL, _ := cmd.Flags().GetString("redis-url")

	if dir == "" {
		dir = cfg.SessionDir
	}
	if redisURL == "" {
		redisURL = cfg.RedisURL
	}
	return cli.StoreOptions{Kind: kind, Dir: dir, RedisURL: redisURL}
}

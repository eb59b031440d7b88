package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/cli"
	"github.com/aretw0/tally/internal/config"
	"github.com/aretw0/tally/internal/logging"
	mcpAdapter "github.com/aretw0/tally/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol server",
	Long: `Exposes the calculator to MCP clients.

Tools: press_keys, evaluate, get_display. Resource: tally://keys.
Uses stdio by default; --sse serves HTTP on --port instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		useSSE, _ := cmd.Flags().GetBool("sse")
		port, _ := cmd.Flags().GetInt("port")
		debug, _ := cmd.Flags().GetBool("debug")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		// Stdout carries the protocol in stdio mode; logs go to stderr only.
		logger := logging.NewNop()
		if debug || useSSE {
			logger = cli.CreateLogger(cfg, debug)
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		store := storeOptions(cmd, cfg)
		if !cmd.Flags().Changed("store") && store.RedisURL == "" {
			store.Kind = cli.StoreMemory
		}
		sessions, closeStore, err := cli.OpenSessions(sigCtx, store, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		engine := tally.New(tally.WithLogger(logger))
		server := mcpAdapter.NewServer(engine, sessions, mcpAdapter.WithLogger(logger))

		if useSSE {
			return server.ServeSSE(sigCtx, port)
		}
		return server.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().Bool("sse", false, "Serve over SSE instead of stdio")
	mcpCmd.Flags().Int("port", 8081, "Port for SSE mode")
}

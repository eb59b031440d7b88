package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/tally/internal/cli"
	"github.com/aretw0/tally/internal/config"
	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, and remove sessions stored by 'tally run --session'.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessions(cmd, func(sessions *session.Manager) error {
			ids, err := sessions.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No sessions found.")
				return nil
			}
			fmt.Fprintln(out, "Sessions:")
			for _, id := range ids {
				fmt.Fprintln(out, "- "+id)
			}
			return nil
		})
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		sessionID := args[0]

		return withSessions(cmd, func(sessions *session.Manager) error {
			state, err := sessions.Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("loading session '%s': %w", sessionID, err)
			}

			var data []byte
			switch output {
			case "yaml":
				data, err = yaml.Marshal(state)
			case "json":
				data, err = json.MarshalIndent(state, "", "  ")
				data = append(data, '\n')
			default:
				return fmt.Errorf("unknown output format %q (want json or yaml)", output)
			}
			if err != nil {
				return fmt.Errorf("marshaling state: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		})
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return fmt.Errorf("requires at least 1 session ID or --all")
		}

		return withSessions(cmd, func(sessions *session.Manager) error {
			ids := args
			if all {
				var err error
				if ids, err = sessions.List(cmd.Context()); err != nil {
					return fmt.Errorf("listing sessions: %w", err)
				}
			}

			failed := 0
			for _, id := range ids {
				if err := sessions.Delete(cmd.Context(), id); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", id, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", id)
			}
			if failed > 0 {
				return fmt.Errorf("%d session(s) could not be removed", failed)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionInspectCmd.Flags().StringP("output", "o", "json", "Output format: json or yaml")
	sessionRmCmd.Flags().Bool("all", false, "Remove every stored session")
}

func withSessions(cmd *cobra.Command, fn func(*session.Manager) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	sessions, closeStore, err := cli.OpenSessions(cmd.Context(), storeOptions(cmd, cfg), logging.NewNop())
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(sessions)
}

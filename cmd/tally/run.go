package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/cli"
	"github.com/aretw0/tally/internal/config"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive calculator",
	Long: `Starts an interactive calculator session.

Each line is a key script such as "12.5 × 3 =". With --keypad and a terminal,
single keystrokes are read instead (Enter is "=", Backspace is ⌫, Esc is AC).
With --session the state is saved after every step and resumed on the next run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		jsonMode, _ := cmd.Flags().GetBool("json")
		keypad, _ := cmd.Flags().GetBool("keypad")
		headless, _ := cmd.Flags().GetBool("headless")
		debug, _ := cmd.Flags().GetBool("debug")

		opts := cli.RunOptions{
			SessionID: sessionID,
			Fresh:     fresh,
			JSON:      jsonMode,
			Keypad:    keypad,
			Headless:  headless,
			Debug:     debug,
			Store:     storeOptions(cmd, cfg),
			In:        cmd.InOrStdin(),
			Out:       cmd.OutOrStdout(),
		}
		return cli.Execute(opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session ID to resume and persist")
	runCmd.Flags().Bool("fresh", false, "Discard the stored session before starting")
	runCmd.Flags().Bool("headless", false, "Run in headless mode (no banner, plain display)")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().BoolP("keypad", "k", false, "Read single keystrokes when stdin is a terminal")

	// 'run' is the default if no command is provided.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/pkg/domain"
)

var evalCmd = &cobra.Command{
	Use:   "eval <keys>...",
	Short: "Press a key script once and print the display",
	Long: `Presses the keys on a fresh calculator and prints the resulting display.

  tally eval 12.5 × 3 =
  tally eval "7/0="`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		ctx := cmd.Context()

		engine := tally.New()
		state, err := engine.PressAll(ctx, engine.Start(ctx, ""), strings.Join(args, " "))
		if err != nil {
			return err
		}
		display := engine.Render(ctx, state)

		out := cmd.OutOrStdout()
		if jsonMode {
			enc := json.NewEncoder(out)
			enc.SetEscapeHTML(false)
			return enc.Encode(display)
		}
		if display.Expression != "" {
			fmt.Fprintln(out, display.Expression)
		}
		fmt.Fprintln(out, display.Value)
		if display.Value == domain.ErrorText {
			return fmt.Errorf("%s", state.Err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().Bool("json", false, "Print the display as JSON")
}

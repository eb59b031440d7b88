package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/presentation/tui"
	"github.com/aretw0/tally/pkg/domain"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the keypad and the accepted key labels",
	Run: func(cmd *cobra.Command, args []string) {
		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			fmt.Fprint(cmd.OutOrStdout(), domain.KeyReference())
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.KeyHelp())
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.Flags().Bool("raw", false, "Print plain markdown")
}

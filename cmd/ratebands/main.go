package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uyouii/ratebands/utils"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "ratebands",
		Short: "Summarize rate-through-time samples as a mean or median curve with quantile bands",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := utils.NewLogger(debug)
			if err != nil {
				return err
			}
			cmd.SetContext(utils.WithLogger(cmd.Context(), logger))
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Development logging")

	rootCmd.AddCommand(
		newPlotCmd(),
		newSummarizeCmd(),
	)
	return rootCmd
}

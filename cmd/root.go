package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "indexdiff",
		Short:         "indexdiff: compare search index contents between two accounts",
		Long:          "indexdiff compares the search indices of a baseline and a candidate account, downloads the indices whose sizes diverge, normalizes their records and reports the ones whose content really differs.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		_ = app.logger.Sync()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(app),
		newIndicesCmd(app),
		newDivergentCmd(app),
		newReportCmd(app),
	)

	return rootCmd
}

package cmd

import (
	"context"

	progressview "github.com/bnema/indexdiff/internal/adapters/render/progress"
	reportview "github.com/bnema/indexdiff/internal/adapters/render/report"
	"github.com/bnema/indexdiff/internal/application"
	"github.com/bnema/indexdiff/internal/ports"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd(app *app) *cobra.Command {
	var asJSON bool
	var plain bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full comparison and report genuinely different indices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			release, err := app.cache.AcquireRunLock()
			if err != nil {
				return err
			}
			defer release()
			defer app.writeMetrics()

			var report application.Report
			workWith := func(logger *zap.Logger) func(ctx context.Context, progress ports.Progress) error {
				return func(ctx context.Context, progress ports.Progress) error {
					pipeline, err := app.pipelineLogging(ctx, progress, logger, true)
					if err != nil {
						return err
					}

					report, err = pipeline.Run(ctx)
					return err
				}
			}

			if plain || asJSON || !isTerminal(cmd.ErrOrStderr()) {
				err = workWith(app.logger)(cmd.Context(), progressview.NewLines(cmd.ErrOrStderr()))
			} else {
				err = progressview.Run(cmd.Context(), cmd.ErrOrStderr(), workWith(app.barLogger()))
			}
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, report)
			}

			rendered, err := reportview.Render(report)
			return writeRendered(cmd, rendered, err)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "Report progress as plain lines instead of a progress bar")

	return cmd
}

package cmd

import (
	reportview "github.com/bnema/indexdiff/internal/adapters/render/report"
	"github.com/bnema/indexdiff/internal/domain"
	"github.com/spf13/cobra"
)

type reportOutput struct {
	Baseline  domain.AccountName `json:"baseline"`
	Candidate domain.AccountName `json:"candidate"`
	Different []string           `json:"different"`
}

func newReportCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report genuinely different indices from artifacts already in the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := app.pipeline(cmd.Context(), nil, false)
			if err != nil {
				return err
			}

			different, err := pipeline.GenuineDifferences(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				comparison := pipeline.Comparison()
				return writeJSON(cmd, reportOutput{
					Baseline:  comparison.Baseline.Name,
					Candidate: comparison.Candidate.Name,
					Different: different,
				})
			}

			rendered, err := reportview.RenderNames("Genuinely different indices", different)
			return writeRendered(cmd, rendered, err)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the differences as JSON")

	return cmd
}

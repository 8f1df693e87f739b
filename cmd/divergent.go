package cmd

import (
	reportview "github.com/bnema/indexdiff/internal/adapters/render/report"
	"github.com/bnema/indexdiff/internal/domain"
	"github.com/spf13/cobra"
)

type divergentOutput struct {
	Baseline  domain.AccountName `json:"baseline"`
	Candidate domain.AccountName `json:"candidate"`
	Divergent []string           `json:"divergent"`
}

func newDivergentCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "divergent",
		Short: "List indices whose data size differs between the two accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := app.pipeline(cmd.Context(), nil, true)
			if err != nil {
				return err
			}

			divergent, err := pipeline.Divergent(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				comparison := pipeline.Comparison()
				return writeJSON(cmd, divergentOutput{
					Baseline:  comparison.Baseline.Name,
					Candidate: comparison.Candidate.Name,
					Divergent: divergent,
				})
			}

			rendered, err := reportview.RenderNames("Divergent indices", divergent)
			return writeRendered(cmd, rendered, err)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the divergent set as JSON")

	return cmd
}

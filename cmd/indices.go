package cmd

import (
	reportview "github.com/bnema/indexdiff/internal/adapters/render/report"
	"github.com/bnema/indexdiff/internal/domain"
	"github.com/spf13/cobra"
)

func newIndicesCmd(app *app) *cobra.Command {
	var accountName string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "indices",
		Short: "Show the index list of one account, fetching it only when not cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, err := app.pipeline(cmd.Context(), nil, true)
			if err != nil {
				return err
			}

			account := domain.AccountName(accountName)
			indices, err := pipeline.IndexList(cmd.Context(), account)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, indices)
			}

			rendered, err := reportview.RenderIndexList(account, indices)
			return writeRendered(cmd, rendered, err)
		},
	}

	cmd.Flags().StringVar(&accountName, "account", "", "Account name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the index list as JSON")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/02loveslollipop/yakchatja/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		opts  searchOptions
		out   string
		sheet string
	)

	c := &cobra.Command{
		Use:   "export",
		Short: "Write the search result to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			list, err := opts.run(cmd.Context(), nowFunc())
			if err != nil {
				return err
			}
			if err := export.SavePharmacies(out, list, sheet); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d곳을 %s에 저장했습니다.\n", len(list), out)
			return nil
		},
	}
	opts.addFlags(c)
	c.Flags().StringVarP(&out, "out", "o", "", "output .xlsx path")
	c.Flags().StringVar(&sheet, "sheet", export.DefaultSheet, "sheet name")
	return c
}

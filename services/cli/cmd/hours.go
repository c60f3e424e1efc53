package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/02loveslollipop/yakchatja/internal/models"
)

func newHoursCmd() *cobra.Command {
	var opts searchOptions

	c := &cobra.Command{
		Use:   "hours",
		Short: "Show the weekly schedule of matching pharmacies",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := opts.run(cmd.Context(), nowFunc())
			if err != nil {
				return err
			}
			for i, item := range list {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				if err := writeWeekly(cmd.OutOrStdout(), item); err != nil {
					return err
				}
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "검색 결과가 없습니다.")
			}
			return nil
		},
	}
	opts.addFlags(c)
	return c
}

// writeWeekly prints the eight-slot schedule of one pharmacy, marking today.
func writeWeekly(w io.Writer, item models.Annotated) error {
	fmt.Fprintf(w, "%s  %s\n", item.Pharmacy.Name, item.Pharmacy.Address)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, day := range item.Hours.Weekly {
		span := "휴무"
		if day.Hours != nil {
			span = day.Hours.String()
		}
		mark := ""
		if day.Label == item.Hours.TodayLabel {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s%s\t%s\n", mark, day.Label, span)
	}
	return tw.Flush()
}

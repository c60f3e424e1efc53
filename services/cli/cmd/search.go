package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/02loveslollipop/yakchatja/internal/models"
)

var nowFunc = time.Now

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	c := &cobra.Command{
		Use:   "search",
		Short: "List pharmacies with today's hours",
		Example: `  yakguk search --sido 서울특별시 --sigungu 종로구 --open
  yakguk search --name 온누리 --night --lat 37.5665 --lng 126.9780`,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := opts.run(cmd.Context(), nowFunc())
			if err != nil {
				return err
			}
			return writeTable(cmd.OutOrStdout(), list)
		},
	}
	opts.addFlags(c)
	return c
}

func yn(b bool) string {
	if b {
		return "Y"
	}
	return "-"
}

// writeTable prints one line per pharmacy.
func writeTable(w io.Writer, list []models.Annotated) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "검색 결과가 없습니다.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t약국명\t오늘\t상태\t야간\t일\t공휴일\t거리\t전화")
	for _, item := range list {
		today := "휴무"
		if item.Hours.Today != nil {
			today = item.Hours.Today.String()
		}
		status := "영업종료"
		if item.Hours.OpenNow {
			status = "영업중"
		}
		if item.Hours.Remaining != "" {
			status += " (" + item.Hours.Remaining + ")"
		}
		distance := item.Distance
		if distance == "" {
			distance = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID, item.Pharmacy.Name, today, status,
			yn(item.Hours.Night), yn(item.Hours.Sunday), yn(item.Hours.Holiday),
			distance, item.Pharmacy.Phone)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d곳\n", len(list))
	return err
}

package cmd

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/02loveslollipop/yakchatja/internal/logging"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "yakguk",
		Short:         "Find open, night and weekend pharmacies from the public pharmacy list",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var logLevel string
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "diagnostic log level written to stderr")
	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		logging.InitWithWriter(cmd.ErrOrStderr(), "cli", "development", logLevel)
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newHoursCmd())
	root.AddCommand(newExportCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "digitforge",
		Short: "Generate images of MNIST digit sequences",
		Long: `digitforge builds images of digit sequences from MNIST tiles (or a built-in
bitmap font). The spacing between digits is drawn uniformly among all
spacings that fit the requested width.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	root.SetVersionTemplate("digitforge {{.Version}}\n")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newDatasetCmd())
	root.AddCommand(newComposeCmd())
	root.AddCommand(newVerifyCmd())
	return root
}

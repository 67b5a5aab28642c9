package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "formbuilder",
		Short:         "Render, validate and publish form schemas",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newRenderCmd(),
		newValidateCmd(),
		newContractCmd(),
		newPublishCmd(),
		newFillCmd(),
		newListCmd(),
		newDeleteCmd(),
	)
	return root
}

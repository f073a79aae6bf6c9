package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWorkspaceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "workspace <username>",
		Short: "Print a pupil's workspace address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			fmt.Println(a.console.WorkspaceURL(args[0]))
			return nil
		},
	}
}

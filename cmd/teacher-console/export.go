package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export group rosters and login cards",
	}
	cmd.AddCommand(
		newExportRosterCmd(a),
		newExportCredentialsCmd(a),
	)
	return cmd
}

func newExportRosterCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "roster <group>",
		Short: "Export a group's member list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			path, err := a.console.ExportRoster(cmd.Context(), args[0], format)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or pdf")
	return cmd
}

func newExportCredentialsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "credentials <group>",
		Short: "Export printable login cards for a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			path, err := a.console.ExportCredentials(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}
}

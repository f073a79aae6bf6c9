package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/babirusa/teacher-console/internal/client"
)

// Admin commands talk to the panel surface of the authority, authenticated
// by the externally supplied panel password rather than a teacher session.
func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer teacher accounts",
	}
	cmd.AddCommand(
		newAdminListCmd(a),
		newAdminCreateCmd(a),
		newAdminDeleteCmd(a),
	)
	return cmd
}

func newAdminListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List teacher accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			teachers, err := a.console.Teachers(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLOGIN\tPUPILS")
			for _, t := range teachers {
				fmt.Fprintf(w, "%s\t%s\t%d\n", t.ID, t.Login, len(t.Pupils))
			}
			return w.Flush()
		},
	}
}

func newAdminCreateCmd(a *app) *cobra.Command {
	var req client.CreateTeacherRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Provision a teacher account",
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			return a.console.CreateTeacher(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVar(&req.Login, "login", "", "teacher login")
	cmd.Flags().StringVar(&req.Password, "password", "", "teacher password")
	return cmd
}

func newAdminDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <teacher-id>",
		Short: "Delete a teacher account together with its pupils",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			return a.console.DeleteTeacher(cmd.Context(), args[0])
		},
	}
}

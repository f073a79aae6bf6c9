package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/babirusa/teacher-console/internal/client"
)

func newPupilsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pupils",
		Short: "Manage pupil accounts",
	}
	cmd.AddCommand(
		newPupilsListCmd(a),
		newPupilsCreateCmd(a),
		newPupilsDeleteCmd(a),
		newPupilsPasswordCmd(a),
		newPupilsMoveCmd(a),
	)
	return cmd
}

func newPupilsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every pupil of the logged-in teacher",
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			pupils, err := a.console.Pupils(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tNAME\tWORKSPACE")
			for _, p := range pupils {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Username, p.FullName(), a.console.WorkspaceURL(p.Username))
			}
			return w.Flush()
		},
	}
}

func newPupilsCreateCmd(a *app) *cobra.Command {
	var req client.EnrollRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pupil and place it in a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			pupil, err := a.console.Enroll(cmd.Context(), req)
			if err != nil {
				// The account may exist even when enrollment failed; show
				// it so the teacher can finish the assignment by hand.
				if pupil != nil {
					fmt.Printf("created pupil %s (%s), not in any group yet\n", pupil.Username, pupil.ID)
				}
				return err
			}
			fmt.Printf("created pupil %s (%s)\n", pupil.Username, pupil.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Firstname, "firstname", "", "pupil first name")
	cmd.Flags().StringVar(&req.Lastname, "lastname", "", "pupil last name")
	cmd.Flags().StringVar(&req.Username, "username", "", "pupil username (workspace subdomain)")
	cmd.Flags().StringVar(&req.Password, "password", "", "pupil password")
	cmd.Flags().StringVar(&req.GroupID, "group", "", "target group id")
	return cmd
}

func newPupilsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <pupil-id>",
		Short: "Delete a pupil account and its workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			return a.console.DeletePupil(cmd.Context(), args[0])
		},
	}
}

func newPupilsPasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "password <pupil-id>",
		Short: "Show a pupil's workspace password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			password, err := a.console.RevealPassword(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(password)
			return nil
		},
	}
}

func newPupilsMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <pupil-id> <group-id>",
		Short: "Move a pupil into a group, leaving any previous group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			return a.console.Move(cmd.Context(), args[0], args[1])
		},
	}
}

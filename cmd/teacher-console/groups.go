package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newGroupsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage pupil groups",
	}
	cmd.AddCommand(
		newGroupsListCmd(a),
		newGroupsCreateCmd(a),
		newGroupsRenameCmd(a),
		newGroupsDeleteCmd(a),
		newGroupsAddCmd(a),
		newGroupsRemoveCmd(a),
	)
	return cmd
}

func newGroupsListCmd(a *app) *cobra.Command {
	var withPupils bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List groups with their member counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			groups, err := a.console.Groups(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPUPILS")
			for _, g := range groups {
				fmt.Fprintf(w, "%s\t%s\t%d\n", g.ID, g.Name, len(g.Pupils))
				if withPupils {
					for _, p := range g.Pupils {
						fmt.Fprintf(w, "\t- %s\t%s\n", p.Username, p.FullName())
					}
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&withPupils, "pupils", false, "list members under each group")
	return cmd
}

func newGroupsCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			group, err := a.console.CreateGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("created group %s (%s)\n", group.Name, group.ID)
			return nil
		},
	}
}

func newGroupsRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <group-id> <new-name>",
		Short: "Rename a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			return a.console.RenameGroup(cmd.Context(), args[0], args[1])
		},
	}
}

func newGroupsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <group-id>...",
		Short: "Delete groups; member pupils keep their accounts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			return a.console.DeleteGroups(cmd.Context(), args...)
		},
	}
}

func newGroupsAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <group-id> <pupil-id>...",
		Short: "Add pupils to a group",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			return a.console.AddToGroup(cmd.Context(), args[0], args[1:])
		},
	}
}

func newGroupsRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <group-id> <pupil-id>...",
		Short: "Remove pupils from a group",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			return a.console.RemoveFromGroup(cmd.Context(), args[0], args[1:])
		},
	}
}

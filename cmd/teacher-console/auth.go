package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(a *app) *cobra.Command {
	var login, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			if login == "" {
				fmt.Print("Login: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				login = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Print("Password: ")
				raw, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Println()
				if err != nil {
					return err
				}
				password = string(raw)
			}
			return a.console.Login(cmd.Context(), login, password)
		},
	}

	cmd.Flags().StringVar(&login, "login", "", "teacher login")
	cmd.Flags().StringVar(&password, "password", "", "teacher password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			fatalIfUnwired(a)
			return a.console.Logout()
		},
	}
}

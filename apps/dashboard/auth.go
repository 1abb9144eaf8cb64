package main

import (
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AkmalxonWeBd/education-platform/core/school"
	"github.com/AkmalxonWeBd/education-platform/core/session"
)

func (cli *commandLine) loginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login --email EMAIL",
		Short: "Log in; the password is prompted next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				_ = cmd.Usage()
				return errHelp
			}
			cli.printf("Enter password:")
			pwd, err := readPasswordFunc(int(syscall.Stdin))
			cli.printf("\n")
			if err != nil {
				return err
			}
			if len(pwd) == 0 {
				_ = cmd.Usage()
				return errHelp
			}
			usr, err := cli.svc.Login(cmd.Context(), school.Credentials{Email: email, Password: string(pwd)})
			if err != nil {
				return err
			}
			cli.printf("Logged in as %s (%s)\n", usr.Name, usr.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "the account email")
	return cmd
}

func (cli *commandLine) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.svc.Logout(); err != nil {
				return err
			}
			cli.printf("Logged out\n")
			return nil
		},
	}
}

func (cli *commandLine) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			usr, err := cli.svc.CurrentUser()
			if err != nil {
				return err
			}
			cli.printf("%s <%s>\nrole: %s\n", usr.Name, usr.Email, usr.Role)

			sess, err := cli.store.Load()
			if err != nil {
				return err
			}
			exp, err := session.TokenExpiry(sess.Token)
			switch {
			case err != nil:
				cli.printf("token: unreadable\n")
			case exp.IsZero():
				cli.printf("token: no expiry\n")
			case exp.Before(time.Now()):
				cli.printf("token: expired at %s\n", exp.Format(time.RFC3339))
			default:
				cli.printf("token: valid until %s\n", exp.Format(time.RFC3339))
			}
			return nil
		},
	}
}

func (cli *commandLine) resetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password EMAIL",
		Short: "Ask the backend to send a password reset link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.svc.ResetPassword(cmd.Context(), args[0]); err != nil {
				return err
			}
			cli.printf("Reset link sent to %s\n", args[0])
			return nil
		},
	}
}

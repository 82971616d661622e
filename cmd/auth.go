package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"skywings-cli/format"
	"skywings-cli/model"
	"skywings-cli/service"
)

func newLoginCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your SkyWings account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				prompt := promptui.Prompt{
					Label: "Email",
					Validate: func(input string) error {
						if !strings.Contains(input, "@") {
							return errors.New("enter a valid email")
						}
						return nil
					},
				}
				value, err := prompt.Run()
				if err != nil {
					return err
				}
				email = value
			}
			passwordPrompt := promptui.Prompt{
				Label: "Password",
				Mask:  '*',
			}
			password, err := passwordPrompt.Run()
			if err != nil {
				return err
			}

			res, err := a.client.Login(cmd.Context(), model.UserLogin{Email: strings.TrimSpace(email), Password: password})
			if err != nil {
				return errors.New(service.Detail(err, "Sign in failed. Please check your credentials."))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", res.User.FullName())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoAmICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.GetMe(cmd.Context())
			if err != nil {
				if service.IsUnauthorized(err) {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
					return nil
				}
				return errors.New(service.Detail(err, "Failed to load profile"))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "[%s] %s <%s>\n", format.Initials(user.FirstName, user.LastName), user.FullName(), user.Email)
			if user.Phone != "" {
				fmt.Fprintf(out, "Phone: %s\n", user.Phone)
			}
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/TheGhoul27/NAS-Cloud/pkg/protocol"
	"github.com/TheGhoul27/NAS-Cloud/pkg/session"
)

func newLoginCommand(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and save the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if password == "" {
				pw, err := readPassword("Password")
				if err != nil {
					return err
				}
				password = pw
			}

			resp, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			expiresAt := resp.ExpiresAt
			if expiresAt.IsZero() {
				if exp, err := session.TokenExpiry(resp.Token); err == nil {
					expiresAt = exp
				}
			}

			if err := a.store.Save(&session.Session{
				Token:     resp.Token,
				ExpiresAt: expiresAt,
				Server:    a.cfg.ServerURL,
				Email:     email,
			}); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			fmt.Printf("Logged in as %s", email)
			if !expiresAt.IsZero() {
				fmt.Printf(" (session valid until %s)", expiresAt.Local().Format(time.RFC1123))
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

func newRegisterCommand(a *app) *cobra.Command {
	var req protocol.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Email == "" {
				return fmt.Errorf("--email is required")
			}
			if req.Password == "" {
				pw, err := readPassword("Password")
				if err != nil {
					return err
				}
				req.Password = pw
			}

			user, err := a.client.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Printf("Account created for %s. Run 'nascloud login' to sign in.\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Account password (prompted if omitted)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.client.Logout()
			if err := a.store.Clear(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func readPassword(title string) (string, error) {
	var pw string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			EchoMode(huh.EchoModePassword).
			Value(&pw),
	))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

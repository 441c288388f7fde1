package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hts-group/hts-tasks/internal/app"
	"github.com/hts-group/hts-tasks/internal/usecase"
)

var errCodeMismatch = errors.New("verification code does not match")

// newProfileCommand creates the profile command and its subcommands.
func newProfileCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or manage your directory profile",
		Long: `Show your directory profile. Other users share items with you by
the share code it carries.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.GetProfileUseCase().Execute(cmd.Context(), usecase.GetProfileInput{})
			if err != nil {
				return err
			}
			p := out.Profile
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, headerStyle.Render(p.Name))
			_, _ = fmt.Fprintf(w, "%s %d\n", labelStyle.Render("Share code:"), p.ShareCode)
			_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render("E-mail:"), p.Email)
			if p.Company != "" {
				_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Company:"), p.Company)
			}
			if p.Position != "" {
				_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Position:"), p.Position)
			}
			if p.PhotoURL != "" {
				_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Photo:"), p.PhotoURL)
			}
			return nil
		},
	}

	cmd.AddCommand(
		newProfileRegisterCommand(c),
		newProfileCodeCommand(c),
		newProfilePhotoCommand(c),
		newProfileVerifyCommand(c),
	)

	return cmd
}

func newProfileRegisterCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name     string
		Email    string
		Company  string
		Position string
	}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Add yourself to the user directory",
		Long:  `Add the signed-in user to the directory. The next free share code is assigned.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.RegisterProfileUseCase().Execute(cmd.Context(), usecase.RegisterProfileInput{
				Name:     opts.Name,
				Email:    opts.Email,
				Company:  opts.Company,
				Position: opts.Position,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered %s with share code %d\n", out.Profile.Name, out.Profile.ShareCode)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "E-mail address (required)")
	cmd.Flags().StringVar(&opts.Company, "company", "", "Company")
	cmd.Flags().StringVar(&opts.Position, "position", "", "Position")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newProfileCodeCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "code <share-code>",
		Short: "Change your share code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("share code must be a number: %q", args[0])
			}
			if err := c.UpdateShareCodeUseCase().Execute(cmd.Context(), usecase.UpdateShareCodeInput{Code: code}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Share code set to %d\n", code)
			return nil
		},
	}
}

func newProfilePhotoCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "photo <file>",
		Short: "Set your profile photo",
		Long:  `Set your profile photo from a PNG, JPEG, GIF or WebP file.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			out, err := c.SetProfilePhotoUseCase().Execute(cmd.Context(), usecase.SetProfilePhotoInput{Data: data})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Photo saved at %s\n", out.URL)
			return nil
		},
	}
}

func newProfileVerifyCommand(c *app.Container) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify an e-mail address with a mailed code",
		Long: `Mail a six-digit code to --to (default: the profile e-mail) and read
it back from standard input.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.SendVerificationCodeUseCase().Execute(cmd.Context(), usecase.SendVerificationCodeInput{To: to})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "A code was sent to %s.\nEnter the code: ", out.To)
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read code: %w", err)
			}
			if strings.TrimSpace(line) != out.Code {
				return errCodeMismatch
			}
			_, _ = fmt.Fprintf(w, "Verified %s\n", out.To)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Address to verify")

	return cmd
}

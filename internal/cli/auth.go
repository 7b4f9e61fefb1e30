package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/squadcast-analyze/internal/auth"
	"github.com/roach88/squadcast-analyze/internal/config"
)

// AuthOptions holds flags for the auth command.
type AuthOptions struct {
	*RootOptions
}

// AuthResult is the JSON payload of the auth command.
type AuthResult struct {
	AccessToken string `json:"access_token"`
}

// NewAuthCommand creates the auth command.
func NewAuthCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AuthOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Print an access token",
		Long: `Exchange the configured refresh token for an access token and print it.

The refresh token is sent in the X-Refresh-Token header. Nothing is cached.

Examples:
  squadcast-analyze auth
  squadcast-analyze auth --env ./prod.env`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(opts, cmd)
		},
	}

	return cmd
}

func runAuth(opts *AuthOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	settings, err := opts.loadSettings()
	if err != nil {
		return failWith(formatter, ErrCodeSettings, ExitCommandError, err, nil)
	}
	if err := settings.Validate(config.RequireAuth); err != nil {
		return fail(formatter, err)
	}

	token, err := resolveToken(cmd, opts.RootOptions, settings)
	if err != nil {
		return err
	}

	if formatter.Format == "json" {
		return formatter.Success(AuthResult{AccessToken: token})
	}
	fmt.Fprintln(formatter.Writer, token)
	return nil
}

// resolveToken runs the token exchange and reports failures.
func resolveToken(cmd *cobra.Command, opts *RootOptions, settings config.Settings) (string, error) {
	formatter := opts.formatter(cmd)
	resolver := auth.NewResolver(settings.AuthURL, auth.WithTimeout(settings.AuthTimeout))

	opts.logger.Debug("resolving access token", "auth_url", settings.AuthURL, "timeout", settings.AuthTimeout)
	token, err := resolver.ResolveToken(cmd.Context(), settings.RefreshToken)
	if err != nil {
		code, exit, details := classify(err)
		if code == ErrCodeGeneric {
			code = ErrCodeAuthRequest
		}
		opts.logger.Debug("token exchange failed", "code", code, "error", err)
		return "", failWith(formatter, code, exit, err, details)
	}
	opts.logger.Debug("access token resolved")
	return token, nil
}

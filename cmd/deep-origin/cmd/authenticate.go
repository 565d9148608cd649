package cmd

import (
	"context"

	"github.com/deeporigin/deeporigin/pkg/auth"
	"github.com/spf13/cobra"
)

func promptDeviceCode(code *auth.DeviceCode) {
	uri := code.VerificationURIComplete
	if uri == "" {
		uri = code.VerificationURI
	}
	infoLogger.Printf(`To connect to the Deep Origin platform, navigate your browser to

%s

and verify the confirmation code is "%s", then click the "Confirm" button.
`, uri, code.UserCode)
}

var authenticateCmd = &cobra.Command{
	Use:   "authenticate",
	Short: "Sign in to the Deep Origin platform",
	Long: `Signs in to the Deep Origin platform with a device authorization:
the CLI prints a link and a code to confirm in a browser, then waits for the confirmation.

Tokens are saved in the file named by the api_tokens_filename configuration key.
Use --refresh to renew the cached access token without signing in again.
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if cfg == nil {
			return
		}
		ctx := context.Background()
		authenticator := auth.FromConfig(cfg, auth.Logger(getLogger()))
		cache := auth.NewTokenCache(cfg.APITokensFilename)

		var (
			tokens *auth.Tokens
			err    error
		)
		if deepOriginFlags.auth.refresh {
			var cached *auth.Tokens
			if cached, err = cache.Load(); err != nil {
				wrapFatalln("read cached tokens", err)
				return
			}
			tokens, err = authenticator.Refresh(ctx, cached.Refresh)
		} else {
			tokens, err = authenticator.DeviceFlow(ctx, promptDeviceCode)
		}
		if err != nil {
			wrapFatalln("authentication failed", err)
			return
		}
		if err = cache.Save(tokens); err != nil {
			wrapFatalln("save tokens to "+cache.Path(), err)
			return
		}

		principal, err := authorizer.Principal(tokens)
		if err != nil {
			infoLogger.Println("authenticated")
			return
		}
		who := principal.Email
		if who == "" {
			who = principal.Subject
		}
		infoLogger.Printf("authenticated as %s", who)
	},
}

func init() {
	addRefreshFlag(authenticateCmd)
	rootCmd.AddCommand(authenticateCmd)
}

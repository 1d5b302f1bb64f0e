package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chainsafe/claims-registry/pkg/auth"
	"github.com/chainsafe/claims-registry/pkg/claim"
	"github.com/chainsafe/claims-registry/pkg/claim/client"
)

const (
	envPrefix      = "CLAIMSCTL"
	defaultServer  = "http://localhost:8080"
	defaultIssuer  = "claims-registry"
	defaultTimeout = 30 * time.Second
)

// Config keys, shared by flags, the config file and the environment.
const (
	keyServer  = "server"
	keyToken   = "token"
	keySecret  = "secret"
	keySubject = "subject"
	keyIssuer  = "issuer"
	keyTTL     = "ttl"
	keyTimeout = "timeout"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "claimsctl",
		Short:         "Operate on the claims registry.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return initConfig(v, cfgFile)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file")
	flags.String(keyServer, defaultServer, "registry API base URL")
	flags.String(keyToken, "", "bearer token sent with every request")
	flags.String(keySecret, "", "HMAC secret used to mint a token when --token is empty")
	flags.String(keySubject, "", "caller identity of minted tokens")
	flags.String(keyIssuer, defaultIssuer, "issuer claim of minted tokens")
	flags.Duration(keyTTL, time.Hour, "lifetime of minted tokens")
	flags.Duration(keyTimeout, defaultTimeout, "request timeout")
	for _, key := range []string{keyServer, keyToken, keySecret, keySubject, keyIssuer, keyTTL, keyTimeout} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}

	cmd.AddCommand(
		newCreateCmd(v),
		newRevokeCmd(v),
		newTransferCmd(v),
		newGetCmd(v),
		newHealthCmd(v),
		newTokenCmd(v),
	)
	return cmd
}

func initConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
	}
	return nil
}

func newCreateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "create <fingerprint>",
		Short: "Register a fingerprint to the caller.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := claim.ParseFingerprint(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, v, func(ctx context.Context, c *client.Client) error {
				created, err := c.CreateClaim(ctx, fp)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), claim.NewResponse(created))
			})
		},
	}
}

func newRevokeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <fingerprint>",
		Short: "Revoke a claim owned by the caller.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := claim.ParseFingerprint(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, v, func(ctx context.Context, c *client.Client) error {
				if err := c.RevokeClaim(ctx, fp); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", fp)
				return err
			})
		},
	}
}

func newTransferCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <fingerprint> <new-owner>",
		Short: "Transfer a claim owned by the caller.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := claim.ParseFingerprint(args[0])
			if err != nil {
				return err
			}
			// Bearer tokens carry opaque subjects, so any non-empty owner is accepted.
			newOwner, err := auth.ParseSubject(args[1])
			if err != nil {
				return err
			}
			return withClient(cmd, v, func(ctx context.Context, c *client.Client) error {
				transferred, err := c.TransferClaim(ctx, fp, newOwner)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), claim.NewResponse(transferred))
			})
		},
	}
}

func newGetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get <fingerprint>",
		Short: "Show the owner and registration height of a claim.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := claim.ParseFingerprint(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, v, func(ctx context.Context, c *client.Client) error {
				found, err := c.GetClaim(ctx, fp)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), claim.NewResponse(found))
			})
		},
	}
}

func newHealthCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the server status and ledger height.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), v.GetDuration(keyTimeout))
			defer cancel()

			h, err := client.New(v.GetString(keyServer)).Health(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), h)
		},
	}
}

func newTokenCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint a bearer token for subject with the shared HMAC secret.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issuer, err := auth.NewIssuer(v.GetString(keySecret), v.GetString(keyIssuer), v.GetDuration(keyTTL))
			if err != nil {
				return err
			}
			token, err := issuer.Issue(claim.AccountID(args[0]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
}

// withClient runs fn with an API client authenticated from the resolved config.
func withClient(cmd *cobra.Command, v *viper.Viper, fn func(ctx context.Context, c *client.Client) error) error {
	token, err := resolveToken(v)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), v.GetDuration(keyTimeout))
	defer cancel()

	return fn(ctx, client.New(v.GetString(keyServer), client.WithToken(token)))
}

func resolveToken(v *viper.Viper) (string, error) {
	if token := v.GetString(keyToken); token != "" {
		return token, nil
	}
	secret, subject := v.GetString(keySecret), v.GetString(keySubject)
	if secret == "" || subject == "" {
		return "", errors.New("either --token or both --secret and --subject are required")
	}
	issuer, err := auth.NewIssuer(secret, v.GetString(keyIssuer), v.GetDuration(keyTTL))
	if err != nil {
		return "", err
	}
	return issuer.Issue(claim.AccountID(subject))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

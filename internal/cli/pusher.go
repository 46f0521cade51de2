package cli

import (
	"context"
	"fmt"
	"os"

	"antigravity2newapi/internal/account"
	"antigravity2newapi/internal/config"
	"antigravity2newapi/internal/core"
	"antigravity2newapi/internal/pusher"
	"antigravity2newapi/internal/storage"
	"antigravity2newapi/internal/util"

	"github.com/spf13/cobra"
)

type pusherOptions struct {
	configPath   string
	accountsPath string
	dryRun       bool
}

// NewPusherCmd creates the credential pusher command
func NewPusherCmd(ctx context.Context, logger core.Logger) *cobra.Command {
	opts := &pusherOptions{}

	cmd := &cobra.Command{
		Use:   "pusher",
		Short: "Create one channel per credential in New API",
		Long: `Pushes every configured (name, key) pair to the channel endpoint, one
request per pair. Failed pairs do not stop the batch; the command exits
non-zero when any push failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runPusher(ctx, cmd, opts, logger)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c",
		util.GetEnvWithDefault("PUSHER_CONFIG", core.DefaultPusherConfigFile), "pusher config file")
	cmd.Flags().StringVarP(&opts.accountsPath, "accounts", "a", "", "also push enabled accounts from this accounts.json")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print payloads without sending them")

	return cmd
}

func runPusher(ctx context.Context, cmd *cobra.Command, opts *pusherOptions, logger core.Logger) error {
	cfg, err := config.LoadPusherConfig(opts.configPath)
	if err != nil {
		return err
	}

	creds, err := collectCredentials(cfg, opts.accountsPath)
	if err != nil {
		return err
	}
	if len(creds) == 0 {
		return fmt.Errorf("no credentials to push")
	}
	logger.Info("Loaded %d credentials", len(creds))

	client := pusher.NewClient(pusher.Options{Config: cfg, Logger: logger})
	out := cmd.OutOrStdout()

	if opts.dryRun {
		for _, cred := range creds {
			payload, err := client.BuildPayload(cred)
			if err != nil {
				return fmt.Errorf("failed to build payload for %s: %w", cred.Name, err)
			}
			data, err := util.MarshalIndentJSON(payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "%s\n", data)
		}
		return nil
	}

	reporter := pusher.NewReporter(out)
	report := client.PushAll(ctx, creds, reporter)
	reporter.Summary(report)

	if report.HasFailures() {
		return fmt.Errorf("%d of %d pushes failed", report.Failed, len(report.Results))
	}
	return nil
}

func collectCredentials(cfg config.PusherConfig, accountsPath string) ([]core.Credential, error) {
	creds := append([]core.Credential(nil), cfg.Credentials...)
	if accountsPath == "" {
		return creds, nil
	}

	if _, err := os.Stat(accountsPath); err != nil {
		return nil, fmt.Errorf("accounts file %s: %w", accountsPath, err)
	}

	accounts, err := storage.NewFileStorage(accountsPath).LoadAccounts()
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	return append(creds, account.CredentialsFromAccounts(accounts)...), nil
}

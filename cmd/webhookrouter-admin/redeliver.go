package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/target/runner-webhook-router/internal/github"
	"github.com/target/runner-webhook-router/internal/service"
)

const defaultRedeliverTimeout = 5 * time.Minute

type redeliverOptions struct {
	SinceSeconds int64
	GitHubPath   string
	WebhookID    int64
	APIBaseURL   string
	Timeout      time.Duration
}

// githubCredentialsEnv carries redelivery credentials. They come from the
// environment rather than flags so tokens never show up in shell history.
type githubCredentialsEnv struct {
	Token             string `env:"GITHUB_TOKEN"`
	AppClientID       string `env:"GITHUB_APP_CLIENT_ID"`
	AppInstallationID int64  `env:"GITHUB_APP_INSTALLATION_ID"`
	AppPrivateKey     string `env:"GITHUB_APP_PRIVATE_KEY"`
}

func runRedeliver(cmdCtx *commandContext, args []string) error {
	opts, err := parseRedeliverFlags(args)
	if err != nil {
		return err
	}

	creds, err := credentialsFromEnv()
	if err != nil {
		return err
	}

	client, err := github.NewClient(github.ClientOptions{
		Path:        opts.GitHubPath,
		WebhookID:   opts.WebhookID,
		Credentials: creds,
		BaseURL:     opts.APIBaseURL,
	})
	if err != nil {
		return err
	}

	svc := service.NewRedeliveryService(service.RedeliveryServiceOptions{
		API:     client,
		Observe: service.Observability{Logger: cmdCtx.Logger},
	})

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	// The count is printed even when the run fails partway: the redeliveries
	// already requested happened and the operator needs to know how many.
	count, redeliverErr := svc.Redeliver(ctx, time.Duration(opts.SinceSeconds)*time.Second)
	if encodeErr := json.NewEncoder(os.Stdout).Encode(map[string]int{"redelivered": count}); encodeErr != nil {
		return errors.Join(redeliverErr, fmt.Errorf("write redeliver result: %w", encodeErr))
	}
	return redeliverErr
}

func parseRedeliverFlags(args []string) (redeliverOptions, error) {
	fs := flag.NewFlagSet("redeliver", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := redeliverOptions{
		Timeout: defaultRedeliverTimeout,
	}
	fs.Int64Var(&opts.SinceSeconds, "since", 0, "Redeliver failures from the last N seconds (required)")
	fs.StringVar(&opts.GitHubPath, "github-path", "", "Webhook owner: owner/repo or an organization (required)")
	fs.Int64Var(&opts.WebhookID, "webhook-id", 0, "Numeric webhook id the deliveries belong to (required)")
	fs.StringVar(&opts.APIBaseURL, "api-url", "", "GitHub API base URL override (for GitHub Enterprise)")
	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultRedeliverTimeout,
		"Maximum duration to wait for the redelivery run to complete",
	)

	if err := fs.Parse(args); err != nil {
		return redeliverOptions{}, err
	}

	if opts.SinceSeconds <= 0 {
		return redeliverOptions{}, errors.New("--since must be greater than zero")
	}
	opts.GitHubPath = strings.TrimSpace(opts.GitHubPath)
	if opts.GitHubPath == "" {
		return redeliverOptions{}, errors.New("--github-path is required")
	}
	if opts.WebhookID <= 0 {
		return redeliverOptions{}, errors.New("--webhook-id is required")
	}
	if opts.Timeout <= 0 {
		return redeliverOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func credentialsFromEnv() (github.Credentials, error) {
	var vars githubCredentialsEnv
	if err := env.Parse(&vars); err != nil {
		return github.Credentials{}, fmt.Errorf("parse github credentials: %w", err)
	}

	creds := github.Credentials{Token: strings.TrimSpace(vars.Token)}
	if vars.AppClientID != "" || vars.AppInstallationID != 0 || vars.AppPrivateKey != "" {
		creds.App = &github.AppCredentials{
			ClientID:       strings.TrimSpace(vars.AppClientID),
			InstallationID: vars.AppInstallationID,
			PrivateKey:     []byte(vars.AppPrivateKey),
		}
	}
	return creds, nil
}

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/carson-networks/budget-ledger/api"
	"github.com/carson-networks/budget-ledger/internal/bankfeed"
	"github.com/carson-networks/budget-ledger/internal/config"
	"github.com/carson-networks/budget-ledger/internal/currency"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/operator"
	"github.com/carson-networks/budget-ledger/internal/service"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// app is everything a command needs once the environment is loaded.
type app struct {
	env      *config.Config
	logger   *logrus.Logger
	storage  *storage.Storage
	operator *operator.OperatorDelegator
	service  *service.Service
}

func (a *app) Close() {
	a.operator.Stop()
	if err := a.storage.Close(); err != nil {
		logrus.WithError(err).Warn("storage.Close")
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "budget-ledger",
		Short:         "Dual-currency personal finance ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env when present)")

	loadApp := func(ctx context.Context) (*app, error) {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		return bootstrap(ctx, files)
	}

	root.AddCommand(newServeCmd(loadApp), newImportCmd(loadApp))
	return root
}

func bootstrap(ctx context.Context, envFiles []string) (*app, error) {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return nil, fmt.Errorf("config.LoadDotEnv: %w", err)
	}
	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return nil, err
	}
	logger := logging.SetupLogging(env.LogLevel)

	store, err := storage.NewStorage(env)
	if err != nil {
		return nil, fmt.Errorf("storage.NewStorage: %w", err)
	}

	op := operator.NewOperatorDelegator(store, 1)
	op.Start()

	var feed service.StatementFetcher
	if env.BankAPIToken != "" {
		feed = bankfeed.NewClient(bankfeed.Config{
			BaseURL:     env.BankAPIURL,
			Token:       env.BankAPIToken,
			Account:     env.BankAccount,
			Timeout:     env.BankFetchTimeout,
			MinInterval: env.BankMinInterval,
		})
	} else {
		logrus.Warn("BANK_API_TOKEN not configured, bank import disabled")
	}

	a := &app{
		env:      env,
		logger:   logger,
		storage:  store,
		operator: op,
		service:  service.NewService(store, op, currency.NewCatalog(), feed),
	}

	err = a.service.Bootstrap(ctx, ledger.Settings{
		BaseCurrency1: env.BaseCurrency1,
		BaseCurrency2: env.BaseCurrency2,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("service.Bootstrap: %w", err)
	}
	return a, nil
}

func newServeCmd(loadApp func(context.Context) (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			logrus.WithField("storageDriver", a.env.StorageDriver).Info("budget-ledger starting")
			rest := api.Rest{
				Logger:         a.logger,
				Port:           a.env.HTTPPort,
				AllowedOrigins: a.env.CORSOrigins,
				Service:        a.service,
			}
			return rest.Serve(ctx)
		},
	}
}

func newImportCmd(loadApp func(context.Context) (*app, error)) *cobra.Command {
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the recent bank statement once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			to := time.Now().UTC()
			result, err := a.service.Import.Import(cmd.Context(), to.Add(-since), to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, duplicates %d, skipped %d\n",
				result.Imported, result.Duplicates, result.Skipped)
			return nil
		},
	}
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "length of the statement period ending now")
	return cmd
}

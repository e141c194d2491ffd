package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/rapidapi"
	"github.com/pricelens/backend/internal/pkg/logger"
	"github.com/pricelens/backend/internal/usecase"
)

const version = "1.0.0"

// deps lets tests swap configuration and the lookup pipeline
type deps struct {
	loadConfig func() (*config.Config, error)
	newLookup  func(cfg *config.Config, log *zap.Logger) domain.PriceLookup
}

var defaultDeps = deps{
	loadConfig: config.Load,
	newLookup:  newLookupService,
}

// NewRootCommand builds the pricelens command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultDeps)
}

func newRootCommand(d deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "pricelens",
		Short: "Compare product prices across Indian online stores",
		Long: `PriceLens looks a product up once in the real-time product search API and
reports the price at Amazon, Flipkart, Shopsy and Meesho.

Examples:
  pricelens lookup "boat airdopes 141"
  pricelens lookup https://www.amazon.in/boAt-Airdopes-141/dp/B09N3ZNHTY --output json
  pricelens serve`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand(d))
	root.AddCommand(newLookupCommand(d))

	return root
}

// newLookupService wires the upstream client into the lookup pipeline
func newLookupService(cfg *config.Config, log *zap.Logger) domain.PriceLookup {
	client := rapidapi.NewClient(rapidapi.Config{
		BaseURL:  cfg.RapidAPI.BaseURL,
		Host:     cfg.RapidAPI.Host,
		Country:  cfg.RapidAPI.Country,
		Language: cfg.RapidAPI.Language,
		Limit:    cfg.RapidAPI.Limit,
		SortBy:   cfg.RapidAPI.SortBy,
		Timeout:  cfg.RapidAPI.Timeout,
	}, cfg.APIKeyFunc(), log)

	return usecase.NewLookupService(client, log)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Options{
		Development: cfg.IsDevelopment(),
		Level:       cfg.Log.Level,
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
	})
}

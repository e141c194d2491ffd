package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/pkg/logger"
	"github.com/pricelens/backend/internal/usecase"
)

type lookupOptions struct {
	sort    string
	output  string
	all     bool
	verbose bool
	timeout time.Duration
}

func newLookupCommand(d deps) *cobra.Command {
	opts := &lookupOptions{}

	cmd := &cobra.Command{
		Use:   "lookup <product name or store link>",
		Short: "Look up a product's price across stores",
		Long: `Run a single price lookup and print the result.

Store links from amazon.in or flipkart.com are reduced to the product name
before searching.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, d, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&opts.sort, "sort", "s", string(usecase.SortPriceLow), "sort order: price-low, price-high or relevance")
	cmd.Flags().StringVarP(&opts.output, "output", "o", formatTable, "output format: table, json or yaml")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "include stores without a price, in lookup order")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log upstream calls to stderr")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", time.Minute, "overall lookup timeout")

	return cmd
}

func runLookup(cmd *cobra.Command, d deps, opts *lookupOptions, input string) error {
	sortOpt, err := usecase.ParseSortOption(opts.sort)
	if err != nil {
		return err
	}
	if !validFormat(opts.output) {
		return fmt.Errorf("unsupported output format %q", opts.output)
	}

	cfg, err := d.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	// Development output goes to stderr so stdout stays machine readable
	log, err := logger.New(logger.Options{Development: true, Level: level})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	query := usecase.NewQueryPreprocessor(log).PreprocessQuery(input)
	if query == "" {
		return domain.ErrInvalidQuery
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	result, err := d.newLookup(cfg, log).LookupPrices(ctx, query)
	if err != nil {
		return err
	}
	log.Debug("lookup finished",
		zap.String("query", result.Query),
		zap.Int("results", len(result.Results)),
		zap.Bool("fallback", result.Fallback),
	)

	rows := result.Results
	if !opts.all {
		rows = usecase.SortForDisplay(result.Results, sortOpt)
	}

	return render(cmd.OutOrStdout(), opts.output, newLookupView(result, rows))
}

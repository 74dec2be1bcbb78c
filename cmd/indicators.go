package cmd

import (
	"context"
	"encoding/json"
	"stock-screener/internal/repository"
	"stock-screener/internal/service"

	"github.com/spf13/cobra"
)

var syncDays int

var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "Maintain stored indicators",
}

var indicatorsRefreshCmd = &cobra.Command{
	Use:   "refresh [symbols...]",
	Short: "Recompute indicators for the given symbols, or every active stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, services *service.Service) (interface{}, error) {
			report, err := services.IndicatorService.RefreshAll(ctx, args)
			if report == nil {
				return nil, err
			}
			return report, err
		})
	},
}

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Maintain stored prices",
}

var pricesSyncCmd = &cobra.Command{
	Use:   "sync [symbols...]",
	Short: "Fetch price history and update quotes for the given symbols, or every active stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, services *service.Service) (interface{}, error) {
			report, err := services.StockService.SyncPrices(ctx, args, syncDays)
			if report == nil {
				return nil, err
			}
			return report, err
		})
	},
}

func init() {
	indicatorsCmd.AddCommand(indicatorsRefreshCmd)
	pricesSyncCmd.Flags().IntVar(&syncDays, "days", 0, "days of history to fetch (default price_source.range)")
	pricesCmd.AddCommand(pricesSyncCmd)
}

// withServices wires the full dependency graph, runs fn and prints its report as JSON.
func withServices(cmd *cobra.Command, fn func(ctx context.Context, services *service.Service) (interface{}, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = appDep.Close() }()

	repo, err := repository.NewRepository(appDep.cfg, appDep.cache, appDep.db.DB, appDep.log)
	if err != nil {
		return err
	}
	report, err := fn(ctx, service.NewService(appDep.cfg, appDep.log, repo, appDep.cache))
	if report != nil {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil && err == nil {
			err = encErr
		}
	}
	return err
}

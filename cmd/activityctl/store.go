package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/activity/events"
	"github.com/lzjever/mbos-activity/internal/store"
)

var (
	storeDriver string
	storeDSN    string
)

type DriftReport struct {
	Stored     int      `json:"stored"`
	Registered int      `json:"registered"`
	Missing    []string `json:"missing"`
}

func openBackend(ctx context.Context) (activity.Backend, error) {
	if storeDSN == "" {
		return nil, fmt.Errorf("--dsn (or ACTIVITY_DB_DSN) is required")
	}
	return store.OpenBackend(ctx, storeDriver, storeDSN)
}

// driftReport lists stored (event kind, revision) pairs with no decoder in reg.
func driftReport(ctx context.Context, s activity.Store, reg *activity.Registry) (DriftReport, error) {
	keys, err := s.DistinctEventKinds(ctx)
	if err != nil {
		return DriftReport{}, fmt.Errorf("list stored event kinds: %w", err)
	}
	report := DriftReport{Stored: len(keys), Registered: reg.Len(), Missing: []string{}}
	for _, k := range reg.Missing(keys) {
		report.Missing = append(report.Missing, k.String())
	}
	return report, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		backend, err := openBackend(ctx)
		if err != nil {
			return err
		}
		defer backend.Close()

		if err := backend.Migrate(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (%s)\n", storeDriver)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report stored event kinds that this build cannot decode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		reg, err := events.NewRegistry()
		if err != nil {
			return err
		}
		backend, err := openBackend(ctx)
		if err != nil {
			return err
		}
		defer backend.Close()

		report, err := driftReport(ctx, backend, reg)
		if err != nil {
			return err
		}
		if err := printResult(cmd.OutOrStdout(), output, report); err != nil {
			return err
		}
		if len(report.Missing) > 0 {
			return fmt.Errorf("%d stored event kinds have no decoder", len(report.Missing))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{migrateCmd, checkCmd} {
		c.Flags().StringVar(&storeDriver, "driver", envOr("ACTIVITY_STORE_DRIVER", store.DriverPostgres), "Store driver (postgres, sqlite)")
		c.Flags().StringVar(&storeDSN, "dsn", os.Getenv("ACTIVITY_DB_DSN"), "Store DSN (default $ACTIVITY_DB_DSN)")
		rootCmd.AddCommand(c)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

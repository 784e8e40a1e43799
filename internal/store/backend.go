package store

import (
	"context"
	"fmt"

	"github.com/lzjever/mbos-activity/internal/activity"
	"github.com/lzjever/mbos-activity/internal/store/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// OpenBackend opens the activity backend for driver.
func OpenBackend(ctx context.Context, driver, dsn string) (activity.Backend, error) {
	switch driver {
	case DriverPostgres:
		s, err := Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverSQLite:
		s, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

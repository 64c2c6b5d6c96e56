package repositories

import (
	"context"

	"github.com/girlscollective/collective/internal/db"
	"github.com/jackc/pgx/v5"
)

func withTx(ctx context.Context, starter db.TxStarter, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return db.WithTransaction(ctx, starter, fn)
}

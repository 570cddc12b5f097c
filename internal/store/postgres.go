package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/trending-go/internal/trending"
)

// PostgresRecordStore is a PostgreSQL implementation of the interaction
// record repository. The table name is namespaced by the deployment prefix.
type PostgresRecordStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresRecordStore creates a PostgreSQL-backed record store.
func NewPostgresRecordStore(pool *pgxpool.Pool, prefix string) *PostgresRecordStore {
	return &PostgresRecordStore{
		pool:  pool,
		table: pgx.Identifier{prefix + "_interactions"}.Sanitize(),
	}
}

// Migrate creates the interactions table when it does not exist yet.
func (p *PostgresRecordStore) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			item_id              text   NOT NULL,
			trend_list_id        text   NOT NULL,
			expiration_timestamp bigint NOT NULL,
			PRIMARY KEY (item_id, trend_list_id, expiration_timestamp)
		)
	`, p.table)

	_, err := p.pool.Exec(ctx, query)

	return err
}

func (p *PostgresRecordStore) Put(ctx context.Context, rec trending.InteractionRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (item_id, trend_list_id, expiration_timestamp)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, p.table)

	_, err := p.pool.Exec(ctx, query, rec.ItemID, rec.TrendListID, rec.ExpirationTimestamp)

	return err
}

func (p *PostgresRecordStore) ExpiredBefore(ctx context.Context, now int64) ([]trending.InteractionRecord, error) {
	query := fmt.Sprintf(`
		SELECT item_id, trend_list_id, expiration_timestamp
		FROM %s
		WHERE expiration_timestamp < $1
		ORDER BY expiration_timestamp, trend_list_id, item_id
	`, p.table)

	rows, err := p.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []trending.InteractionRecord

	for rows.Next() {
		var rec trending.InteractionRecord
		if err := rows.Scan(&rec.ItemID, &rec.TrendListID, &rec.ExpirationTimestamp); err != nil {
			return nil, err
		}

		expired = append(expired, rec)
	}

	return expired, rows.Err()
}

func (p *PostgresRecordStore) Delete(ctx context.Context, rec trending.InteractionRecord) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE item_id = $1 AND trend_list_id = $2 AND expiration_timestamp = $3
	`, p.table)

	_, err := p.pool.Exec(ctx, query, rec.ItemID, rec.TrendListID, rec.ExpirationTimestamp)

	return err
}

// Compile-time check.
var _ trending.RecordRepository = (*PostgresRecordStore)(nil)

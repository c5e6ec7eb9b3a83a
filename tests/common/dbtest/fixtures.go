//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DefaultShopID is the reference shop seeded for every test database.
var DefaultShopID = uuid.MustParse("3f1aa1a8-6f0e-4c2a-9d5b-1a7cf0e3b901")

func CreateTestShop(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	shopID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO shops (id, name) VALUES ($1, $2)", shopID, name)
	require.NoError(t, err)

	return shopID
}

func CreateTestSlot(t *testing.T, db DBLike, shopID uuid.UUID, start, end time.Time, capacity *int32) uuid.UUID {
	t.Helper()

	slotID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO time_slots (id, shop_id, start_at, end_at, capacity) VALUES ($1, $2, $3, $4, $5)",
		slotID, shopID, start, end, capacity)
	require.NoError(t, err)

	return slotID
}

func CreateTestOrder(t *testing.T, db DBLike, shopID uuid.UUID) uuid.UUID {
	t.Helper()

	orderID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO orders (id, shop_id, status, total_cents) VALUES ($1, $2, 'new', 600)",
		orderID, shopID)
	require.NoError(t, err)

	_, err = db.Exec(ctx,
		"INSERT INTO order_items (id, order_id, name_snapshot, unit_price_cents, qty, line_total_cents) VALUES ($1, $2, 'espresso', 300, 2, 600)",
		uuid.New(), orderID)
	require.NoError(t, err)

	return orderID
}

// ExpireHold backdates the order's hold so the next capacity check sweeps it,
// without waiting out the real TTL.
func ExpireHold(t *testing.T, db DBLike, orderID uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	tag, err := db.Exec(ctx,
		"UPDATE slot_holds SET expires_at = NOW() - INTERVAL '1 second' WHERE order_id = $1", orderID)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected(), "expected exactly one hold for order")
}

func CountHolds(t *testing.T, db DBLike, slotID uuid.UUID) int64 {
	t.Helper()

	var count int64
	err := db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM slot_holds WHERE slot_id = $1", slotID).Scan(&count)
	require.NoError(t, err)
	return count
}

func OrderStatus(t *testing.T, db DBLike, orderID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(),
		"SELECT status FROM orders WHERE id = $1", orderID).Scan(&status)
	require.NoError(t, err)
	return status
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO shops (id, name) VALUES ($1, 'Downtown Roastery')
		ON CONFLICT (id) DO NOTHING;
	`, DefaultShopID)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}

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

func CreateTestShop(t *testing.T, db DBLike, name, address string) uuid.UUID {
	t.Helper()

	shopID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO shops (id, name, address) VALUES ($1, $2, $3)", shopID, name, address)
	require.NoError(t, err)
	return shopID
}

// CreateTestOffer inserts an offer with a pickup window starting in an hour.
func CreateTestOffer(t *testing.T, db DBLike, shopID uuid.UUID, qty int) uuid.UUID {
	t.Helper()

	offerID := uuid.New()
	start := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	_, err := db.Exec(context.Background(),
		"INSERT INTO offers (id, shop_id, qty_available, pickup_start, pickup_end) VALUES ($1, $2, $3, $4, $5)",
		offerID, shopID, qty, start, start.Add(2*time.Hour))
	require.NoError(t, err)
	return offerID
}

func OfferQty(t *testing.T, db DBLike, offerID uuid.UUID) int {
	t.Helper()

	var qty int
	err := db.QueryRow(context.Background(), "SELECT qty_available FROM offers WHERE id = $1", offerID).Scan(&qty)
	require.NoError(t, err)
	return qty
}

func ReservationStatus(t *testing.T, db DBLike, reservationID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM reservations WHERE id = $1", reservationID).Scan(&status)
	require.NoError(t, err)
	return status
}

// SetPickupCode overwrites a code, for collision scenarios.
func SetPickupCode(t *testing.T, db DBLike, reservationID uuid.UUID, code string) {
	t.Helper()

	_, err := db.Exec(context.Background(), "UPDATE reservations SET pickup_code = $2 WHERE id = $1", reservationID, code)
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables except the goose version table
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('goose_db_version')`)
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
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}

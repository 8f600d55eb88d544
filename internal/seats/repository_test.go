package seats

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=seatgrid dbname=seatgrid sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

// The regeneration guard must lock the event's rows, not an aggregate:
// Postgres rejects FOR UPDATE combined with count(*).
func TestLockEventSeatsLocksRowsNotAggregates(t *testing.T) {
	db := dryRunDB(t)

	var dest []Seat
	stmt := lockEventSeats(db, uuid.New(), &dest).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "FOR UPDATE")
	assert.NotContains(t, strings.ToLower(sql), "count(")
	assert.Contains(t, sql, `"seat_inventory"`)
}

func TestCountAllocated(t *testing.T) {
	rows := []Seat{
		{Status: StatusAvailable},
		{Status: StatusHeld},
		{Status: StatusConfirmed},
		{Status: StatusAvailable},
	}
	assert.Equal(t, 2, countAllocated(rows))
	assert.Equal(t, 0, countAllocated(nil))
	assert.Equal(t, 0, countAllocated([]Seat{{Status: StatusAvailable}}))
}

package mysql

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/pgmeta/internal/database"
	"github.com/koustreak/pgmeta/internal/errs"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"no rows", sql.ErrNoRows, errs.ErrKindNotFound},
		{"access denied", &gomysql.MySQLError{Number: 1045, Message: "Access denied"}, errs.ErrKindPermissionDenied},
		{"table access denied", &gomysql.MySQLError{Number: 1142, Message: "SELECT command denied"}, errs.ErrKindPermissionDenied},
		{"unknown database", &gomysql.MySQLError{Number: 1049, Message: "Unknown database"}, errs.ErrKindConnectionFailed},
		{"query timeout", &gomysql.MySQLError{Number: 3024, Message: "maximum statement execution time exceeded"}, errs.ErrKindTimeout},
		{"syntax", &gomysql.MySQLError{Number: 1064, Message: "syntax error"}, errs.ErrKindQueryFailed},
		{"network", errors.New("dial tcp: i/o timeout"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(tt.err, "table query")
			require.Error(t, err)
			assert.Equal(t, tt.want, errs.KindOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.True(t, mapError(nil, "unused") == nil)
}

func TestDriverConfig(t *testing.T) {
	mc, err := driverConfig(&database.Config{
		DSN:            "app:secret@tcp(localhost:3306)/shop?parseTime=true",
		ConnectTimeout: 3 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "shop", mc.DBName)
	assert.Equal(t, "localhost:3306", mc.Addr)
	assert.False(t, mc.ParseTime)
	assert.Equal(t, 3*time.Second, mc.Timeout)

	_, err = driverConfig(&database.Config{DSN: "not a dsn"})
	assert.True(t, errs.IsInvalidInput(err))

	_, err = driverConfig(nil)
	assert.True(t, errs.IsInvalidInput(err))
}

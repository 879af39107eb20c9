package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionpack/pkg/db"
)

func TestOpenInvalidDSN(t *testing.T) {
	t.Parallel()

	_, err := db.Open(context.Background(), db.Config{DSN: "postgres://user@host:notaport/db"})
	require.ErrorIs(t, err, db.ErrInvalidDSN)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectPing()
	require.NoError(t, db.Healthcheck(conn)(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	require.ErrorIs(t, db.Healthcheck(conn)(context.Background()), db.ErrHealthcheckFailed)

	require.NoError(t, mock.ExpectationsWereMet())
}

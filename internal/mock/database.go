// Package mock contains utilities for tests.
package mock

import (
	"context"
	"database/sql"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// Connection is the mock version for database.Connection.
type Connection struct {
	db      *sql.DB
	SQLMock sqlmock.Sqlmock
}

func (m Connection) CreateContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := 5 * time.Second
	return context.WithTimeout(ctx, timeout)
}

func (m Connection) DB() *sql.DB {
	return m.db
}

func (m Connection) Close() {
	_ = m.DB().Close()
}

func MustCreateConnectionMock() Connection {
	db, mock, err := sqlmock.New()
	if err != nil {
		panic(err)
	}
	return Connection{
		db:      db,
		SQLMock: mock,
	}
}

type DBResultOption func(dbConn Connection)

func MockDBResults(dbConn Connection, opts ...DBResultOption) {
	for _, opt := range opts {
		opt(dbConn)
	}
}

// WithTxBegin expects a transaction to start.
func WithTxBegin() DBResultOption {
	return func(dbConn Connection) {
		dbConn.SQLMock.ExpectBegin()
	}
}

// WithTxCommit expects the current transaction to commit.
func WithTxCommit() DBResultOption {
	return func(dbConn Connection) {
		dbConn.SQLMock.ExpectCommit()
	}
}

// WithTxRollback expects the current transaction to roll back.
func WithTxRollback() DBResultOption {
	return func(dbConn Connection) {
		dbConn.SQLMock.ExpectRollback()
	}
}

package database

import (
	"io"

	"go.uber.org/zap"

	"github.com/example/wordcoach/internal/drill"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the repository for driver. The closer releases the underlying
// connection, if any.
func Open(driver, dsn string, logger *zap.Logger) (drill.Repository, io.Closer, error) {
	if driver == DriverFile {
		return NewFileRepository(dsn, logger), nopCloser{}, nil
	}
	db, err := Connect(driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	return NewSQLRepository(db, logger), db, nil
}

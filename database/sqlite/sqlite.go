package sqlite

import (
	"runtime"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/altavoz/altavoz-server/database/model"
)

// SqliteRepo implements the repository surface on top of SQLite.
type SqliteRepo struct {
	// Read db handle
	dbReadHandle *sqlx.DB
	// Handle specifically for writes
	dbWriteHandle *sqlx.DB
}

// Options holds configuration options.
type Options struct {
	Filename string `yaml:"filename"`
}

// New initializes a sqlite database and creates schema if necessary.
func New(o *Options) (*SqliteRepo, error) {
	if o == nil || o.Filename == "" {
		return nil, model.ErrNoConfiguration
	}

	dbHandle, err := sqlx.Connect("sqlite3", o.Filename)
	if err != nil {
		return nil, err
	}
	dbHandle.SetMaxOpenConns(max(4, runtime.NumCPU()))

	writeDB, err := sqlx.Connect("sqlite3", o.Filename)
	if err != nil {
		return nil, err
	}
	// sqlite needs to have a single writer
	writeDB.SetMaxOpenConns(1)

	if err := dbInitSchema(writeDB); err != nil {
		return nil, err
	}

	return &SqliteRepo{
		dbReadHandle:  dbHandle,
		dbWriteHandle: writeDB,
	}, nil
}

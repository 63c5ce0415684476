package statstore

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	devenv "mlbstats/dev/env"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Config says where the stats database lives. A non-empty Url selects a
// remote libsql server, otherwise File is opened as a local sqlite database
// (a leading <dev_state> is resolved into the workspace's state directory).
type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// Target returns where the config points to, for logs and errors. It never
// includes the auth token.
func (c Config) Target() string {
	if c.Url != "" {
		return c.Url
	}
	return c.File
}

// ConnectionError means the store could not be reached at all, there is no
// point in carrying on with whatever operation needed it.
type ConnectionError struct {
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to store %s: %s", e.Target, e.Err.Error())
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

type Store struct {
	db *sql.DB
}

// New wraps an already opened database.
func New(db *sql.DB) Store {
	return Store{db: db}
}

func (s Store) DB() *sql.DB {
	return s.db
}

func (s Store) Close() error {
	return s.db.Close()
}

func openLocal(file string) (*sql.DB, error) {
	if file == "" {
		return nil, fmt.Errorf("a path was not specified")
	}
	if file == ":memory:" {
		db, err := sql.Open("sqlite", file)
		if err != nil {
			return nil, err
		}
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
		return db, nil
	}

	dbpath, err := devenv.ResolvePath(file)
	if err != nil {
		return nil, err
	}
	err = os.MkdirAll(filepath.Dir(dbpath), 0755)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func openRemote(rawURL, authToken string) (*sql.DB, error) {
	dsn := rawURL
	if authToken != "" {
		parsed, err := url.Parse(rawURL)
		if err != nil {
			return nil, err
		}
		query := parsed.Query()
		query.Set("authToken", authToken)
		parsed.RawQuery = query.Encode()
		dsn = parsed.String()
	}
	return sql.Open("libsql", dsn)
}

// Open connects to the store and makes sure it answers. Every failure is a
// *ConnectionError.
func Open(ctx context.Context, config Config) (Store, error) {
	ctx, span := tracer.Start(ctx, "Open")
	defer span.End()

	var db *sql.DB
	var err error
	if config.Url != "" {
		db, err = openRemote(config.Url, config.AuthToken)
	} else {
		db, err = openLocal(config.File)
	}
	if err != nil {
		span.RecordError(err)
		return Store{}, &ConnectionError{Target: config.Target(), Err: err}
	}

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		span.RecordError(err)
		return Store{}, &ConnectionError{Target: config.Target(), Err: err}
	}
	return New(db), nil
}

// Package listingdb stores the demo listing data served by `credir serve`.
package listingdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS companies (
    id        INTEGER PRIMARY KEY,
    name      TEXT NOT NULL,
    type      TEXT CHECK(type IN ('brokerage','owner','tenant','developer') OR type IS NULL),
    city      TEXT,
    state     TEXT,
    website   TEXT,
    phone     TEXT,
    brokers   INTEGER,
    listings  INTEGER
);

CREATE TABLE IF NOT EXISTS brokers (
    id        INTEGER PRIMARY KEY,
    name      TEXT NOT NULL,
    title     TEXT,
    company   TEXT,
    email     TEXT,
    phone     TEXT,
    city      TEXT,
    state     TEXT,
    specialty TEXT,
    listings  INTEGER,
    volume    REAL
);

CREATE TABLE IF NOT EXISTS locations (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    address       TEXT,
    city          TEXT,
    state         TEXT,
    zip           TEXT,
    property_type TEXT,
    square_feet   REAL,
    occupancy     REAL CHECK(occupancy BETWEEN 0 AND 100 OR occupancy IS NULL),
    owner         TEXT
);

CREATE TABLE IF NOT EXISTS funds (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    manager    TEXT,
    strategy   TEXT,
    focus      TEXT,
    vintage    INTEGER,
    size       REAL,
    properties INTEGER,
    status     TEXT
);

CREATE TABLE IF NOT EXISTS listings (
    id            INTEGER PRIMARY KEY,
    title         TEXT NOT NULL,
    address       TEXT,
    city          TEXT,
    state         TEXT,
    property_type TEXT,
    listing_type  TEXT CHECK(listing_type IN ('sale','lease') OR listing_type IS NULL),
    price         REAL,
    rate          REAL,
    square_feet   REAL,
    year_built    INTEGER,
    broker        TEXT,
    status        TEXT,
    listed_at     TEXT
);

CREATE TABLE IF NOT EXISTS transactions (
    id          INTEGER PRIMARY KEY,
    property    TEXT NOT NULL,
    city        TEXT,
    state       TEXT,
    type        TEXT,
    buyer       TEXT,
    seller      TEXT,
    price       REAL,
    square_feet REAL,
    broker      TEXT,
    closed_at   TEXT
);

CREATE INDEX IF NOT EXISTS idx_brokers_name ON brokers(name);
CREATE INDEX IF NOT EXISTS idx_listings_city ON listings(city);
CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price);
CREATE INDEX IF NOT EXISTS idx_transactions_closed_at ON transactions(closed_at DESC);
`

// DB is the demo listing database.
type DB struct {
	*sqlx.DB
}

// Open opens or creates the SQLite database and initializes the schema.
func Open(path string) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{DB: db}, nil
}

// Empty reports whether no rows have been seeded yet.
func (d *DB) Empty(ctx context.Context) (bool, error) {
	var n int
	if err := d.GetContext(ctx, &n, `SELECT COUNT(*) FROM listings`); err != nil {
		return false, fmt.Errorf("count listings: %w", err)
	}
	return n == 0, nil
}

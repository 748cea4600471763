// Package database owns the MySQL connection pool.  Every repository
// shares the single *sql.DB returned by Open.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// dsn assembles the driver connection string.  parseTime maps DATETIME
// columns onto time.Time and loc=UTC keeps stored and scanned times in
// one zone.  clientFoundRows makes UPDATE report matched rows instead of
// changed rows: the repositories translate zero affected rows into their
// not-found sentinels, so a value-identical update must not look like a
// missing row.
func dsn(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = user + ":" + pass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		auth, host, port, name)
}

// Open connects to MySQL, applies the pool limits and verifies the server
// is reachable before the router starts taking requests.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	// A request can touch up to four tables while the resolver walks a
	// comment's chain, so keep a healthy warm pool.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

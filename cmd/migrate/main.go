// Package main applies SQL migrations in order. Each applied migration is
// recorded in schema_migrations so reruns are idempotent.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		dir         = flag.String("dir", "migrations", "Directory containing migration files")
		down        = flag.Bool("down", false, "Apply down migrations in reverse order instead")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	if err := run(*databaseURL, *dir, *down); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run(databaseURL, dir string, down bool) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	if down {
		return applyDown(db, dir)
	}
	return applyUp(db, dir)
}

func applyUp(db *sql.DB, dir string) error {
	files, err := migrationFiles(dir, ".up.sql")
	if err != nil {
		return err
	}

	for _, file := range files {
		version := strings.TrimSuffix(filepath.Base(file), ".up.sql")

		applied, err := isApplied(db, version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := applyFile(db, file, version, true); err != nil {
			return err
		}
		fmt.Println("applied", version)
	}
	return nil
}

func applyDown(db *sql.DB, dir string) error {
	files, err := migrationFiles(dir, ".down.sql")
	if err != nil {
		return err
	}

	// Reverse order: newest first.
	for i := len(files) - 1; i >= 0; i-- {
		file := files[i]
		version := strings.TrimSuffix(filepath.Base(file), ".down.sql")

		applied, err := isApplied(db, version)
		if err != nil {
			return err
		}
		if !applied {
			continue
		}

		if err := applyFile(db, file, version, false); err != nil {
			return err
		}
		fmt.Println("reverted", version)
	}
	return nil
}

func migrationFiles(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func isApplied(db *sql.DB, version string) (bool, error) {
	var exists bool
	err := db.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return exists, nil
}

func applyFile(db *sql.DB, file, version string, up bool) error {
	contents, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx for %s: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(string(contents)); err != nil {
		return fmt.Errorf("apply %s: %w", version, err)
	}

	if up {
		_, err = tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", version)
	} else {
		_, err = tx.Exec("DELETE FROM schema_migrations WHERE version = $1", version)
	}
	if err != nil {
		return fmt.Errorf("record %s: %w", version, err)
	}

	return tx.Commit()
}

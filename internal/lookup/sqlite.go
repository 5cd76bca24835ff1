package lookup

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteGateway implements Gateway against a local SQLite database.
type SQLiteGateway struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the technical database.
func NewSQLite(dbPath string) (*SQLiteGateway, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for concurrent readers while imports run.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	g := &SQLiteGateway{db: db}
	if err := g.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return g, nil
}

func (g *SQLiteGateway) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS fault_codes (
		model TEXT NOT NULL,
		serial TEXT NOT NULL,
		cid TEXT NOT NULL,
		fmi TEXT NOT NULL,
		description TEXT,
		causes TEXT,
		url TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_fault_codes_key
		ON fault_codes(model, cid, fmi);

	CREATE TABLE IF NOT EXISTS events (
		model TEXT NOT NULL,
		serial TEXT NOT NULL,
		eid TEXT NOT NULL,
		level TEXT NOT NULL,
		warning_description TEXT,
		url_main TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_events_key
		ON events(model, eid, level);
	`
	if _, err := g.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (g *SQLiteGateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}

// Close closes the database connection.
func (g *SQLiteGateway) Close() error {
	return g.db.Close()
}

// LookupCode finds the fault-code record for the machine, or (nil, nil).
func (g *SQLiteGateway) LookupCode(ctx context.Context, model, serial3, cid, fmi string) (*domain.FaultCodeRecord, error) {
	query := `
		SELECT description, causes, url
		FROM fault_codes
		WHERE model = ?
		  AND substr(serial, 1, 3) = ?
		  AND cid = ?
		  AND fmi = ?
		LIMIT 1`

	row := g.db.QueryRowContext(ctx, query, model, serial3, cid, fmi)

	var description, causes, url sql.NullString
	err := row.Scan(&description, &causes, &url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan fault-code row: %w", err)
	}

	return &domain.FaultCodeRecord{
		CID:         cid,
		FMI:         fmi,
		Description: description.String,
		Causes:      causes.String,
		URL:         url.String,
	}, nil
}

// LookupEvent finds the event record for the machine, or (nil, nil).
func (g *SQLiteGateway) LookupEvent(ctx context.Context, model, serial3, eid, level string) (*domain.EventRecord, error) {
	query := `
		SELECT warning_description, url_main
		FROM events
		WHERE model = ?
		  AND substr(serial, 1, 3) = ?
		  AND eid = ?
		  AND level = ?
		LIMIT 1`

	row := g.db.QueryRowContext(ctx, query, model, serial3, eid, level)

	var warning, urlMain sql.NullString
	err := row.Scan(&warning, &urlMain)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan event row: %w", err)
	}

	return &domain.EventRecord{
		EID:                eid,
		Level:              level,
		WarningDescription: warning.String,
		URLMain:            urlMain.String,
	}, nil
}

// InsertFaultCode adds one fault-code row. Used by imports and tests.
func (g *SQLiteGateway) InsertFaultCode(ctx context.Context, model, serial string, rec domain.FaultCodeRecord) error {
	query := `
		INSERT INTO fault_codes (model, serial, cid, fmi, description, causes, url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := g.db.ExecContext(ctx, query,
		model, serial, rec.CID, rec.FMI, rec.Description, rec.Causes, rec.URL,
	); err != nil {
		return fmt.Errorf("insert fault code: %w", err)
	}
	return nil
}

// InsertEvent adds one event row. Used by imports and tests.
func (g *SQLiteGateway) InsertEvent(ctx context.Context, model, serial string, rec domain.EventRecord) error {
	query := `
		INSERT INTO events (model, serial, eid, level, warning_description, url_main)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := g.db.ExecContext(ctx, query,
		model, serial, rec.EID, rec.Level, rec.WarningDescription, rec.URLMain,
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ImportFaultCodesCSV loads rows exported from the master spreadsheet.
// Expected columns: model, serial, cid, fmi, description, causes, url.
// A header row is detected and skipped. Returns the number of rows
// imported.
func (g *SQLiteGateway) ImportFaultCodesCSV(ctx context.Context, r io.Reader) (int, error) {
	return g.importCSV(ctx, r, 7, "cid",
		`INSERT INTO fault_codes (model, serial, cid, fmi, description, causes, url)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
}

// ImportEventsCSV loads event rows exported from the master spreadsheet.
// Expected columns: model, serial, eid, level, warning_description, url_main.
func (g *SQLiteGateway) ImportEventsCSV(ctx context.Context, r io.Reader) (int, error) {
	return g.importCSV(ctx, r, 6, "eid",
		`INSERT INTO events (model, serial, eid, level, warning_description, url_main)
		 VALUES (?, ?, ?, ?, ?, ?)`)
}

func (g *SQLiteGateway) importCSV(ctx context.Context, r io.Reader, fields int, headerToken, insert string) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Warn("import rollback failed", "error", rbErr)
		}
	}()

	count := 0
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if line == 1 && record[2] == headerToken {
			continue
		}
		args := make([]any, len(record))
		for i, v := range record {
			args[i] = v
		}
		if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
			return 0, fmt.Errorf("insert csv line %d: %w", line, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return count, nil
}

package db

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"
)

// captureHandler records log records for assertion in tests.
type captureHandler struct {
	mu    sync.Mutex
	attrs []map[string]slog.Value
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *captureHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := make(map[string]slog.Value)
	m["msg"] = slog.StringValue(r.Message)
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value
		return true
	})
	h.attrs = append(h.attrs, m)
	return nil
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }

func (h *captureHandler) WithGroup(name string) slog.Handler { return h }

func (h *captureHandler) last(t *testing.T) map[string]slog.Value {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.attrs) - 1; i >= 0; i-- {
		if h.attrs[i]["msg"].String() == "sql" {
			return h.attrs[i]
		}
	}
	t.Fatal("no sql log record captured")
	return nil
}

func (h *captureHandler) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attrs = nil
}

func openLogged(t *testing.T, driverName string, handler *captureHandler) *sql.DB {
	t.Helper()
	connector, err := NewLoggingConnector(driverName, ":memory:", slog.New(handler))
	if err != nil {
		t.Fatalf("NewLoggingConnector: %v", err)
	}
	db := sql.OpenDB(connector)
	// one connection keeps the in-memory database alive between statements
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewLoggingConnector_nilLoggerUsesDefault(t *testing.T) {
	conn, err := NewLoggingConnector("sqlite3", ":memory:", nil)
	if err != nil {
		t.Fatalf("NewLoggingConnector: %v", err)
	}
	lc := conn.(*loggingConnector)
	if lc.logger != slog.Default() {
		t.Error("expected slog.Default() when logger is nil")
	}
}

func TestNewLoggingConnector_unknownDriver(t *testing.T) {
	if _, err := NewLoggingConnector("postgres", "host=x", nil); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestLoggingDriver_OpenUnsupported(t *testing.T) {
	if _, err := (&loggingDriver{}).Open(":memory:"); err == nil {
		t.Fatal("expected error opening through loggingDriver")
	}
}

func TestLoggingConnector_LogsStatements(t *testing.T) {
	for _, driverName := range []string{"sqlite3", "sqlite"} {
		t.Run(driverName, func(t *testing.T) {
			handler := &captureHandler{}
			db := openLogged(t, driverName, handler)

			if _, err := db.Exec(`CREATE TABLE measurement (id INTEGER PRIMARY KEY, station TEXT, date TEXT, prcp REAL, tobs REAL)`); err != nil {
				t.Fatalf("create table: %v", err)
			}
			got := handler.last(t)
			if got["op"].String() != "exec" {
				t.Errorf("op: got %q, want exec", got["op"].String())
			}

			handler.reset()
			if _, err := db.Exec(`INSERT INTO measurement (station, date, prcp, tobs) VALUES (?, ?, ?, ?)`, "USC00519281", "2017-08-23", nil, 81.0); err != nil {
				t.Fatalf("insert: %v", err)
			}
			got = handler.last(t)
			if got["sql"].String() != `INSERT INTO measurement (station, date, prcp, tobs) VALUES (?, ?, ?, ?)` {
				t.Errorf("sql: got %q", got["sql"].String())
			}
			args, ok := got["args"].Any().([]string)
			if !ok || len(args) != 4 || args[0] != "USC00519281" || args[2] != "NULL" {
				t.Errorf("args: got %v", got["args"])
			}
			if _, ok := got["elapsed"]; !ok {
				t.Error("expected elapsed attribute in log")
			}
			if _, ok := got["error"]; ok {
				t.Errorf("unexpected error attribute: %v", got["error"])
			}

			handler.reset()
			var n int
			if err := db.QueryRow(`SELECT COUNT(*) FROM measurement WHERE station = ?`, "USC00519281").Scan(&n); err != nil {
				t.Fatalf("query row: %v", err)
			}
			if n != 1 {
				t.Errorf("count: got %d, want 1", n)
			}
			got = handler.last(t)
			if got["op"].String() != "query" {
				t.Errorf("op: got %q, want query", got["op"].String())
			}
			if got["sql"].String() != `SELECT COUNT(*) FROM measurement WHERE station = ?` {
				t.Errorf("sql: got %q", got["sql"].String())
			}
		})
	}
}

func TestLoggingConnector_LogsFailedStatements(t *testing.T) {
	handler := &captureHandler{}
	db := openLogged(t, "sqlite3", handler)

	if _, err := db.Exec(`CREATE TABLE station (station TEXT UNIQUE)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO station (station) VALUES (?)`, "USC00519281"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	handler.reset()
	if _, err := db.Exec(`INSERT INTO station (station) VALUES (?)`, "USC00519281"); err == nil {
		t.Fatal("duplicate insert succeeded")
	}
	got := handler.last(t)
	if got["error"].String() == "" {
		t.Error("expected error attribute for failed statement")
	}
}

func TestLoggingConnector_PingSucceeds(t *testing.T) {
	db := openLogged(t, "sqlite3", &captureHandler{})
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestFormatArg(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: nil, want: "NULL"},
		{in: []byte("USC00519281"), want: "USC00519281"},
		{in: 81.5, want: "81.5"},
		{in: "2017-08-23", want: "2017-08-23"},
	}
	for _, tt := range tests {
		if got := formatArg(tt.in); got != tt.want {
			t.Errorf("formatArg(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

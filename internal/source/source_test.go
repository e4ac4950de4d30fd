package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/iwvelando/mortgage-simulator/pkg/brackets"
	"github.com/iwvelando/mortgage-simulator/pkg/testutil"
	"go.uber.org/zap"
)

func TestNewSelectsImplementation(t *testing.T) {
	tests := []struct {
		name     string
		location string
		wantType string
		wantErr  bool
	}{
		{"Default location", "", "*source.File", false},
		{"Relative path", "data/financing_data.json", "*source.File", false},
		{"File URL", "file:///srv/financing_data.json", "*source.File", false},
		{"HTTP", "http://example.com/financing_data.json", "*source.HTTP", false},
		{"HTTPS", "https://example.com/financing_data.json", "*source.HTTP", false},
		{"Redis", "redis://localhost:6379/0?key=faixas", "*source.Redis", false},
		{"SQLite", "sqlite:///tmp/faixas.db?table=faixas", "*source.SQLite", false},
		{"Unsupported scheme", "ftp://example.com/data.json", "", true},
		{"Bad SQLite table name", "sqlite:///tmp/faixas.db?table=drop-table", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New(zap.NewNop(), tt.location, Options{})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("New(%q) expected error, got %T", tt.location, src)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) error = %v", tt.location, err)
			}
			if got := fmt.Sprintf("%T", src); got != tt.wantType {
				t.Errorf("New(%q) = %s, expected %s", tt.location, got, tt.wantType)
			}
			if src.Describe() == "" {
				t.Errorf("Describe() returned empty string")
			}
		})
	}
}

func TestDecodeRows(t *testing.T) {
	rows, err := DecodeRows([]byte(`[{"renda": 2640, "valor_max_financiado": 190000, "taxa_juros": 0.0475,
		"subsidio_com_dependente": 55000, "subsidio_sem_dependente": 50000, "faixa": "1"}]`))
	if err != nil {
		t.Fatalf("DecodeRows() error = %v", err)
	}
	want := []brackets.Bracket{{IncomeCeiling: 2640, MaxFinanceable: 190000, AnnualRate: 0.0475,
		SubsidyWithDependents: 55000, SubsidyWithoutDependents: 50000}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("DecodeRows() = %+v, expected %+v", rows, want)
	}

	for _, input := range []string{"", "  ", "null"} {
		if _, err := DecodeRows([]byte(input)); !errors.Is(err, ErrEmptyDocument) {
			t.Errorf("DecodeRows(%q) error = %v, expected ErrEmptyDocument", input, err)
		}
	}

	if _, err := DecodeRows([]byte(`{"renda": 1}`)); err == nil {
		t.Errorf("expected error decoding an object instead of an array")
	}
}

func TestFileLoad(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteTableFile(t, dir, testutil.SampleRows())

	rows, err := NewFile(nil, path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(rows, testutil.SampleRows()) {
		t.Errorf("Load() = %+v, expected sample rows", rows)
	}

	if _, err := NewFile(nil, filepath.Join(dir, "missing.json")).Load(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() of missing file error = %v, expected ErrNotExist", err)
	}

	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte("[{"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := NewFile(nil, broken).Load(context.Background()); err == nil {
		t.Errorf("expected decode error for malformed file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFile(nil, path).Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() with cancelled context error = %v, expected context.Canceled", err)
	}
}

func TestHTTPLoad(t *testing.T) {
	payload, err := json.Marshal(testutil.SampleRows())
	if err != nil {
		t.Fatalf("failed to marshal rows: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/financing_data.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(payload)
		case "/broken":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	opts := Options{Timeout: 2 * time.Second, Retries: 0}

	rows, err := NewHTTP(nil, server.URL+"/financing_data.json", opts).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(rows) != len(testutil.SampleRows()) {
		t.Errorf("Load() returned %d rows, expected %d", len(rows), len(testutil.SampleRows()))
	}

	for _, path := range []string{"/broken", "/missing"} {
		if _, err := NewHTTP(nil, server.URL+path, opts).Load(context.Background()); err == nil {
			t.Errorf("Load(%s) expected error", path)
		}
	}
}

func TestRedisLoad(t *testing.T) {
	mr := miniredis.RunT(t)

	payload, err := json.Marshal(testutil.SampleRows())
	if err != nil {
		t.Fatalf("failed to marshal rows: %v", err)
	}
	if err := mr.Set("faixas", string(payload)); err != nil {
		t.Fatalf("failed to seed redis: %v", err)
	}

	src, err := NewRedis(nil, "redis://"+mr.Addr()+"/0?key=faixas", Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	rows, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(rows, testutil.SampleRows()) {
		t.Errorf("Load() = %+v, expected sample rows", rows)
	}

	missing, err := NewRedis(nil, "redis://"+mr.Addr()+"/0", Options{RedisKey: "absent", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	if _, err := missing.Load(context.Background()); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Load() of missing key error = %v, expected ErrEmptyDocument", err)
	}
}

func TestSQLiteLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faixas.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE faixas (
		renda REAL, valor_max_financiado REAL, taxa_juros REAL,
		subsidio_com_dependente REAL, subsidio_sem_dependente REAL)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	for _, row := range testutil.SampleRows() {
		if _, err := db.Exec(`INSERT INTO faixas VALUES (?, ?, ?, ?, ?)`,
			row.IncomeCeiling, row.MaxFinanceable, row.AnnualRate,
			row.SubsidyWithDependents, row.SubsidyWithoutDependents); err != nil {
			t.Fatalf("failed to insert row: %v", err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close database: %v", err)
	}

	src, err := NewSQLite(nil, "sqlite://"+path, Options{})
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	rows, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(rows, testutil.SampleRows()) {
		t.Errorf("Load() = %+v, expected sample rows", rows)
	}

	wrongTable, err := NewSQLite(nil, "sqlite://"+path+"?table=other", Options{})
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	if _, err := wrongTable.Load(context.Background()); err == nil {
		t.Errorf("expected error querying a missing table")
	}
}

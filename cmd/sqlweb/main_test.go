package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/sqlweb/internal/sqladmin"
)

// isolate points the binary at a fresh database file and an empty working
// directory so no local config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("SQLWEB_CONFIG", "")
	t.Setenv("DATABASE_PATH", "")
	dbPath := filepath.Join(dir, "data", "app.db")
	t.Setenv("SQLWEB_DATABASE_PATH", dbPath)
	return dbPath
}

// execute runs the command tree with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGetConfigPath(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("SQLWEB_CONFIG", "")
		path, explicit := getConfigPath("")
		if path != defaultConfigPath || explicit {
			t.Errorf("getConfigPath() = %q, %v", path, explicit)
		}
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("SQLWEB_CONFIG", "/etc/sqlweb.yaml")
		path, explicit := getConfigPath("")
		if path != "/etc/sqlweb.yaml" || !explicit {
			t.Errorf("getConfigPath() = %q, %v", path, explicit)
		}
	})

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("SQLWEB_CONFIG", "/etc/sqlweb.yaml")
		path, explicit := getConfigPath("local.yaml")
		if path != "local.yaml" || !explicit {
			t.Errorf("getConfigPath() = %q, %v", path, explicit)
		}
	})
}

func TestLoadConfig_MissingDefaultFileUsesDefaults(t *testing.T) {
	dbPath := isolate(t)

	cfg, path, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if cfg.Database.Path != dbPath {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, dbPath)
	}
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	isolate(t)

	if _, _, err := loadConfig("/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("loadConfig() should fail for a missing explicit file")
	}
}

func TestLoadConfig_DefaultFile(t *testing.T) {
	isolate(t)

	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(defaultConfigPath, []byte("api:\n  port: 9200\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if path != defaultConfigPath || cfg.API.Port != 9200 {
		t.Errorf("loadConfig() = port %d from %q", cfg.API.Port, path)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	isolate(t)
	t.Setenv("SQLWEB_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx, ""); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

func TestRun_StartsAndStops(t *testing.T) {
	dbPath := isolate(t)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserving port: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	t.Setenv("SQLWEB_API_HOST", "127.0.0.1")
	t.Setenv("SQLWEB_API_PORT", strconv.Itoa(port))
	t.Setenv("SQLWEB_LOG_LEVEL", "error")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := run(ctx, ""); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestCLI_QueryTablesSchema(t *testing.T) {
	isolate(t)

	out, err := execute(t, "query", "CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT NOT NULL)")
	if err != nil {
		t.Fatalf("query create: %v", err)
	}
	if !strings.Contains(out, "(0 rows affected)") {
		t.Errorf("create output = %q", out)
	}

	if _, err := execute(t, "query", "INSERT INTO people (name) VALUES ('ada'), ('grace')"); err != nil {
		t.Fatalf("query insert: %v", err)
	}

	out, err = execute(t, "tables")
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	if !strings.Contains(out, "people") || !strings.Contains(out, "2") {
		t.Errorf("tables output = %q", out)
	}

	out, err = execute(t, "tables", "--format", "json")
	if err != nil {
		t.Fatalf("tables json: %v", err)
	}
	var tables []sqladmin.TableInfo
	if err := json.Unmarshal([]byte(out), &tables); err != nil {
		t.Fatalf("tables json output %q: %v", out, err)
	}
	if len(tables) != 1 || tables[0] != (sqladmin.TableInfo{Name: "people", Rows: 2}) {
		t.Errorf("tables = %+v", tables)
	}

	out, err = execute(t, "schema", "people")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(out, "name") || !strings.Contains(out, "TEXT") {
		t.Errorf("schema output = %q", out)
	}

	out, err = execute(t, "query", "SELECT name FROM people ORDER BY id")
	if err != nil {
		t.Fatalf("query select: %v", err)
	}
	if !strings.Contains(out, "ada") || !strings.Contains(out, "(2 rows)") {
		t.Errorf("select output = %q", out)
	}
}

func TestCLI_Errors(t *testing.T) {
	isolate(t)

	if _, err := execute(t, "schema", "missing"); err == nil || err.Error() != "Table 'missing' was not found." {
		t.Errorf("schema missing error = %v", err)
	}
	if _, err := execute(t, "schema", "bad name"); err == nil || !strings.Contains(err.Error(), "Invalid table name") {
		t.Errorf("schema invalid error = %v", err)
	}
	if _, err := execute(t, "query"); err == nil {
		t.Error("query without SQL should fail")
	}
	if _, err := execute(t, "query", ";"); err == nil {
		t.Error("empty query should fail")
	}
}

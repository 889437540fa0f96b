package config

import (
	"testing"

	"github.com/templui/tagbox/internal/db"
)

func TestLoadDatabaseDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_CONNECTION", "")

	driver, connection := LoadDatabase()
	if driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", driver)
	}
	if want := db.SQLiteDSN("./data/tagbox.db"); connection != want {
		t.Errorf("connection = %q, want %q", connection, want)
	}
}

func TestLoadDatabaseFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_CONNECTION", "postgres://tagbox@localhost/tagbox")

	driver, connection := LoadDatabase()
	if driver != "pgx" || connection != "postgres://tagbox@localhost/tagbox" {
		t.Errorf("LoadDatabase() = %q, %q", driver, connection)
	}
}

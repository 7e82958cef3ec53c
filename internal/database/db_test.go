package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendParam(t *testing.T) {
	cases := []struct {
		name string
		dsn  string
		want string
	}{
		{"url without query", "postgres://u:p@localhost:5432/db", "postgres://u:p@localhost:5432/db?sslmode=disable"},
		{"url with query", "postgresql://u@h/db?application_name=x", "postgresql://u@h/db?application_name=x&sslmode=disable"},
		{"keyword dsn", "host=localhost dbname=db", "host=localhost dbname=db sslmode=disable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, appendParam(tc.dsn, "sslmode=disable"))
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected up and down migrations, got %d files", len(entries))
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, ',', cfg.CSVDelimiter)
	assert.Equal(t, "utf-8", cfg.InputEncoding)
	assert.Empty(t, cfg.DateLayouts)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3, cfg.MaxConcurrency)
	assert.Equal(t, "https://insideairbnb.com/get-the-data/", cfg.SourceURL)
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "POSTGRES_HOST=db.internal\n" +
		"CSV_DELIMITER=;\n" +
		"DATE_LAYOUTS=2006-01-02, 02.01.2006 ,\n" +
		"MAX_CONCURRENCY=8\n" +
		"MAX_RETRIES=nope\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	for _, key := range []string{"POSTGRES_HOST", "CSV_DELIMITER", "DATE_LAYOUTS", "MAX_CONCURRENCY", "MAX_RETRIES"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := Load(path)

	assert.Equal(t, "db.internal", cfg.PostgresHost)
	assert.Equal(t, ';', cfg.CSVDelimiter)
	assert.Equal(t, []string{"2006-01-02", "02.01.2006"}, cfg.DateLayouts)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.Equal(t, 3, cfg.MaxRetries, "unparsable ints fall back")
}

func TestGetEnvRune(t *testing.T) {
	tests := []struct {
		val  string
		want rune
	}{
		{"", ','},
		{"|", '|'},
		{`\t`, '\t'},
		{"ab", ','},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			t.Setenv("TEST_DELIM", tt.val)
			assert.Equal(t, tt.want, getEnvRune("TEST_DELIM", ','))
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "h", PostgresPort: "1", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "d", PostgresSSLMode: "disable",
	}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", cfg.DSN())
}

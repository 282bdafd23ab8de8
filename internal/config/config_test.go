package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.Production())
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, 72*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "0 0 * * 3", cfg.WorkHours.Schedule)
	assert.Empty(t, cfg.WorkHours.DriverIDs)
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadParsesLists(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("WORK_HOURS_DRIVER_IDS", "3,5,8")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []uint{3, 5, 8}, cfg.WorkHours.DriverIDs)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	pg := Database{Driver: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", pg.DSN())

	my := Database{Driver: "mysql", Host: "db", Port: "3306", User: "u", Password: "p", Name: "n", TimeZone: "UTC"}
	dsn := my.DSN()
	assert.Contains(t, dsn, "u:p@tcp(db:3306)/n?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

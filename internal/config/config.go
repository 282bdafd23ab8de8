package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	BcryptCost  int    `env:"BCRYPT_COST" envDefault:"10"`

	Server struct {
		Addr            string        `env:"ADDR" envDefault:"0.0.0.0:8080"`
		ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
		WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
		IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
		AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	} `envPrefix:"SERVER_"`

	Database Database `envPrefix:"DB_"`

	Session struct {
		Secret     string        `env:"SECRET,required,notEmpty"`
		TTL        time.Duration `env:"TTL" envDefault:"72h"`
		CookieName string        `env:"COOKIE_NAME" envDefault:"supply_chain_session"`
	} `envPrefix:"SESSION_"`

	Redis struct {
		Addr     string `env:"ADDR"`
		Password string `env:"PASSWORD"`
		DB       int    `env:"DB" envDefault:"0"`
	} `envPrefix:"REDIS_"`

	Log struct {
		File       string `env:"FILE" envDefault:"./logs/app.log"`
		Level      string `env:"LEVEL" envDefault:"debug"`
		MaxSize    int    `env:"MAX_SIZE" envDefault:"10"`
		MaxBackups int    `env:"MAX_BACKUPS" envDefault:"7"`
		MaxAge     int    `env:"MAX_AGE" envDefault:"7"`
	} `envPrefix:"LOG_"`

	WorkHours struct {
		Schedule  string `env:"SCHEDULE" envDefault:"0 0 * * 3"`
		DriverIDs []uint `env:"DRIVER_IDS" envSeparator:","`
		Native    bool   `env:"NATIVE" envDefault:"false"`
		StartsAt  string `env:"STARTS_AT" envDefault:"2019-12-25 00:00:00"`
	} `envPrefix:"WORK_HOURS_"`
}

type Database struct {
	Driver       string        `env:"DRIVER" envDefault:"postgres"`
	Host         string        `env:"HOST" envDefault:"localhost"`
	Port         string        `env:"PORT" envDefault:"5432"`
	User         string        `env:"USER" envDefault:"postgres"`
	Password     string        `env:"PASSWORD" envDefault:"password"`
	Name         string        `env:"NAME" envDefault:"supply_chain"`
	SSLMode      string        `env:"SSLMODE" envDefault:"disable"`
	TimeZone     string        `env:"TIMEZONE" envDefault:"UTC"`
	MaxOpenConns int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxIdleTime  time.Duration `env:"MAX_IDLE_TIME" envDefault:"1m"`
	SlowQuery    time.Duration `env:"SLOW_QUERY" envDefault:"200ms"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found – relying on env vars")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	switch cfg.Database.Driver {
	case "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	return cfg, nil
}

func (c *Config) Production() bool { return c.Environment == "production" }

// DSN builds the data source name for the configured driver.
func (d Database) DSN() string {
	if d.Driver == "mysql" {
		mc := mysql.NewConfig()
		mc.User = d.User
		mc.Passwd = d.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(d.Host, d.Port)
		mc.DBName = d.Name
		mc.ParseTime = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		if loc, err := time.LoadLocation(d.TimeZone); err == nil {
			mc.Loc = loc
		}
		return mc.FormatDSN()
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

package config

import (
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	applicationName     = "ficmart-confirmer"
	poolHealthCheck     = 30 * time.Second
	connectTimeout      = 5 * time.Second
	connectTimeoutParam = "connect_timeout"
)

// ConnString renders the settings as a postgres URL. Credentials are
// escaped, so passwords may contain any character.
func (c *DatabaseConfig) ConnString() string {
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	q.Set("application_name", applicationName)
	q.Set(connectTimeoutParam, strconv.Itoa(int(connectTimeout.Seconds())))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// PgxConfig builds the pool for the request store. The store is written by
// one flow per request plus the reconciler, so the idle floor never exceeds
// the pool size.
func (c *DatabaseConfig) PgxConfig() (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(c.ConnString())
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = int32(c.MaxOpenConns)
	cfg.MinConns = int32(min(c.MaxIdleConns, c.MaxOpenConns))
	cfg.MaxConnLifetime = c.ConnMaxLifetime
	cfg.MaxConnIdleTime = c.ConnMaxIdleTime
	cfg.HealthCheckPeriod = poolHealthCheck

	return cfg, nil
}

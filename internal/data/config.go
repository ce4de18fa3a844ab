package data

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DBConfig describes how to reach the PostgreSQL database. It is embedded
// under a DB field in each command's configuration, so envconfig reads it
// from DB_DSN, DB_HOST, DB_PORT, DB_SSLMODE, DB_CONNECT_TIMEOUT and so on.
type DBConfig struct {
	DSN            string
	Host           string `default:"localhost" validate:"required"`
	Port           int    `default:"5432" validate:"min=1,max=65535"`
	Name           string `default:"library" validate:"required"`
	User           string `default:"postgres" validate:"required"`
	Password       string
	SSLMode        string        `default:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	ConnectTimeout int           `split_words:"true" default:"30" validate:"min=1"`
	MaxOpenConns   int           `split_words:"true" default:"25" validate:"min=1"`
	MaxIdleConns   int           `split_words:"true" default:"25" validate:"min=0"`
	MaxIdleTime    time.Duration `split_words:"true" default:"15m"`
	AutoMigrate    bool          `split_words:"true" default:"true"`
}

// ConnString returns the PostgreSQL connection string. An explicit DSN is
// used verbatim; otherwise it is assembled from the parts. Neon hosts
// always require TLS and need the endpoint id passed as a startup option.
func (c DBConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}

	query := url.Values{}
	sslMode := c.SSLMode
	if strings.Contains(c.Host, "neon.tech") {
		sslMode = "require"
		endpoint, _, _ := strings.Cut(c.Host, ".")
		query.Set("options", "endpoint="+endpoint)
	}
	query.Set("sslmode", sslMode)
	query.Set("connect_timeout", strconv.Itoa(c.ConnectTimeout))

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// IsNeon reports whether the connection string is built for a Neon endpoint.
func (c DBConfig) IsNeon() bool {
	return c.DSN == "" && strings.Contains(c.Host, "neon.tech")
}

// Timeout returns the connect timeout as a duration.
func (c DBConfig) Timeout() time.Duration {
	return time.Duration(c.ConnectTimeout) * time.Second
}

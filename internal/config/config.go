package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	JWTSecret string
	JWTTTL    time.Duration

	IdempTTLSecs int

	// Amount policy. Request-stage and confirmation-stage ceilings differ
	// on purpose: confirmation also covers offers above the request range.
	RequestMinAmount int64
	RequestMaxAmount int64
	ConfirmMaxAmount int64
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt64(k string, d int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "emprestimo"),
		MySQLUser: getenv("MYSQL_USER", "emprestimo"),
		MySQLPass: getenv("MYSQL_PASS", "emprestimo"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),

		JWTSecret: getenv("JWT_SECRET", ""),
		JWTTTL:    24 * time.Hour,

		IdempTTLSecs: 300,

		RequestMinAmount: getenvInt64("LOAN_REQUEST_MIN_AMOUNT", 1000),
		RequestMaxAmount: getenvInt64("LOAN_REQUEST_MAX_AMOUNT", 20000),
		ConfirmMaxAmount: getenvInt64("LOAN_CONFIRM_MAX_AMOUNT", 50000),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	if v := os.Getenv("JWT_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.JWTTTL = time.Duration(n) * time.Hour
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.RequestMinAmount <= 0 || c.RequestMaxAmount < c.RequestMinAmount {
		return fmt.Errorf("invalid request amount bounds [%d, %d]", c.RequestMinAmount, c.RequestMaxAmount)
	}
	if c.ConfirmMaxAmount < c.RequestMinAmount {
		return fmt.Errorf("invalid confirm amount ceiling %d", c.ConfirmMaxAmount)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

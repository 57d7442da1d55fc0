package main

import (
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// DatabasePreflight validates the connection settings the changelog parser
// is configured with. It only checks that the settings form a well-formed
// DSN; no connection is ever opened.
type DatabasePreflight struct {
	cfg    DatabaseConfig
	logger *logrus.Logger
}

// NewDatabasePreflight creates a new database preflight check.
func NewDatabasePreflight(cfg DatabaseConfig, logger *logrus.Logger) *DatabasePreflight {
	return &DatabasePreflight{cfg: cfg, logger: logger}
}

// Check builds the DSN from the configured settings and verifies it parses
// back cleanly.
func (c *DatabasePreflight) Check() error {
	mc := mysql.NewConfig()
	mc.User = c.cfg.User
	mc.Passwd = c.cfg.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	mc.DBName = c.cfg.Name

	dsn := mc.FormatDSN()
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return fmt.Errorf("invalid database settings: %w", err)
	}

	c.logger.Debugf("Database placeholder settings validated for %s", mc.Addr)
	return nil
}

package main

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestDatabasePreflight(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     3306,
		User:     "release",
		Password: "secret",
		Name:     "appdb",
	}

	assert.NoError(t, NewDatabasePreflight(cfg, logger).Check())
}

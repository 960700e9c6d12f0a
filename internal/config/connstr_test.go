package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/barangay-connect/member-portal/internal/config"
)

func TestMakeConnStr(t *testing.T) {
	connStr := config.MakeConnStr(config.Database{
		Name:     "member_portal",
		Host:     "db.internal",
		Port:     "5432",
		User:     "portal",
		Password: "secret",
		SSLMode:  "require",
	})

	assert.Equal(t, "host=db.internal user=portal password=secret dbname=member_portal port=5432 sslmode=require", connStr)
}

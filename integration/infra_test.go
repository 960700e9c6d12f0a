//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/require"

	"github.com/barangay-connect/member-portal/internal/config"
	"github.com/barangay-connect/member-portal/internal/dbtest/postgrestest"
	"github.com/barangay-connect/member-portal/internal/dbtest/valkeytest"
)

type closeFunc func(ctx context.Context)

type infraStat struct {
	PostgresPort   nat.Port
	ValKeyPort     nat.Port
	ConfigFilePath string
	Procdir        string
	Cfg            config.Config

	closeFuncs []closeFunc
}

func initInfra(t *testing.T, testName string) (istat infraStat) {
	t.Helper()

	// Since the config is read from the file $PWD/config.yaml,
	// we're running a process in a subdirectory so that we aren't interferring with the other tests.
	wd, err := os.Getwd()
	require.NoError(t, err, "failed to get wd")
	istat.Procdir = filepath.Join(wd, testName+"-test")
	istat.ConfigFilePath = filepath.Join(istat.Procdir, "config.yaml")

	// Prepare a directory for the test
	err = os.MkdirAll(istat.Procdir, fs.ModePerm)
	require.NoError(t, err, "failed to create a dir for the process")

	err = os.WriteFile(istat.ConfigFilePath, []byte(validConfig), fs.ModePerm)
	require.NoError(t, err, "failed to write config file")

	err = config.LoadConfig(&istat.Cfg, istat.Procdir)
	require.NoError(t, err, "failed to load config")

	// Let OS choose a free port
	istat.Cfg.HTTP.Address = "unix://" + filepath.Join(istat.Procdir, testName+".sock")
	fmt.Println("HTTP Address is: ", istat.Cfg.HTTP.Address)

	return istat
}

func (istat *infraStat) PreparePostgres(t *testing.T) {
	t.Helper()

	pgClient, pgPort, pgTerminate := postgrestest.Start(t.Context())
	pgClient.Close()

	istat.PostgresPort = pgPort
	istat.closeFuncs = append(istat.closeFuncs, pgTerminate)

	istat.Cfg.Database.Name = postgrestest.DBName
	istat.Cfg.Database.Host = postgrestest.DBHost
	istat.Cfg.Database.Port = pgPort.Port()
	istat.Cfg.Database.User = postgrestest.DBUser
	istat.Cfg.Database.Password = postgrestest.DBPassword
	istat.Cfg.Database.SSLMode = postgrestest.DBSSLMode
}

func (istat *infraStat) PrepareValKey(t *testing.T) {
	t.Helper()

	vkClient, vkPort, vkTerminate := valkeytest.Start(t.Context())
	vkClient.Close()

	istat.ValKeyPort = vkPort
	istat.closeFuncs = append(istat.closeFuncs, vkTerminate)

	istat.Cfg.ValKey.Host = net.JoinHostPort("localhost", vkPort.Port())
	istat.Cfg.ValKey.User = ""
	istat.Cfg.ValKey.Password = ""
}

// PrepareConfig writes a config file for running the test into the ConfigFilePath.
func (istat *infraStat) PrepareConfig(t *testing.T) {
	t.Helper()

	data, err := yaml.Marshal(istat.Cfg)
	require.NoError(t, err, "failed to encode config")

	err = os.WriteFile(istat.ConfigFilePath, data, fs.ModePerm)
	require.NoError(t, err, "failed to write config")
}

func (istat *infraStat) Close(ctx context.Context) {
	os.Remove(istat.ConfigFilePath)
	os.RemoveAll(istat.Procdir)

	for _, close := range istat.closeFuncs {
		close(ctx)
	}
}

package cmdutils

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barangay-connect/member-portal/internal/config"
)

func TestCobraCommand(t *testing.T) {
	t.Run("creates command with correct properties", func(t *testing.T) {
		businessFunc := func(ctx context.Context, cfg *config.Config) error {
			return nil
		}

		wrapperFunc := func(ctx context.Context, fn func(context.Context, *config.Config) error, cfg *config.Config) error {
			return fn(ctx, cfg)
		}

		cmd := CobraCommand("test-cmd", "short desc", "long description", wrapperFunc, businessFunc)

		assert.Equal(t, "test-cmd", cmd.Use)
		assert.Equal(t, "short desc", cmd.Short)
		assert.Equal(t, "long description", cmd.Long)
		assert.NotNil(t, cmd.RunE)
	})

	t.Run("RunE hands the loaded config to the wrapper", func(t *testing.T) {
		var gotCfg *config.Config
		businessFunc := func(ctx context.Context, cfg *config.Config) error {
			return nil
		}

		wrapperFunc := func(ctx context.Context, fn func(context.Context, *config.Config) error, cfg *config.Config) error {
			gotCfg = cfg
			return fn(ctx, cfg)
		}

		cmd := CobraCommand("test", "short", "long", wrapperFunc, businessFunc)

		err := cmd.Execute()
		require.NoError(t, err)
		require.NotNil(t, gotCfg)
		assert.NotEmpty(t, gotCfg.Application.Name)
	})

	t.Run("RunE returns error when wrapper function fails", func(t *testing.T) {
		businessFunc := func(ctx context.Context, cfg *config.Config) error {
			return nil
		}

		wrapperErr := errors.New("wrapper error")
		wrapperFunc := func(ctx context.Context, fn func(context.Context, *config.Config) error, cfg *config.Config) error {
			return wrapperErr
		}

		cmd := CobraCommand("test", "short", "long", wrapperFunc, businessFunc)

		err := cmd.Execute()
		require.ErrorIs(t, err, wrapperErr)
	})
}

func TestStatusCheckers(t *testing.T) {
	t.Run("no checkers outside the postgres backend", func(t *testing.T) {
		for _, backend := range []config.StorageBackend{config.StorageValKey, config.StorageMemory} {
			cfg := &config.Config{Storage: config.Storage{Backend: backend}}
			assert.Empty(t, statusCheckers(cfg), "backend %s", backend)
		}
	})

	t.Run("postgres backend gets a database checker", func(t *testing.T) {
		cfg := &config.Config{Storage: config.Storage{Backend: config.StoragePostgres}}

		checkers := statusCheckers(cfg)
		require.Len(t, checkers, 1)
		assert.Equal(t, "database", checkers[0].Name)
		assert.NotNil(t, checkers[0].Check)
	})
}

func ExampleCobraCommand() {
	businessFunc := func(ctx context.Context, cfg *config.Config) error {
		fmt.Println("Running business logic")
		return nil
	}

	wrapperFunc := func(ctx context.Context, fn func(context.Context, *config.Config) error, cfg *config.Config) error {
		fmt.Println("Wrapper function called")
		return fn(ctx, cfg)
	}

	cmd := CobraCommand(
		"example",
		"Example command",
		"This is an example of how to use CobraCommand",
		wrapperFunc,
		businessFunc,
	)

	fmt.Printf("Command use: %s\n", cmd.Use)
	// Output: Command use: example
}

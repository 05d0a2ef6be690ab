package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/healthguard/pkg/logging"
)

type fakeMigrator struct {
	upErr   error
	steps   []int
	forced  []int
	version uint
	dirty   bool
	verErr  error
}

func (f *fakeMigrator) Up() error { return f.upErr }

func (f *fakeMigrator) Steps(n int) error {
	f.steps = append(f.steps, n)
	return nil
}

func (f *fakeMigrator) Force(v int) error {
	f.forced = append(f.forced, v)
	return nil
}

func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, f.dirty, f.verErr }

func TestRun(t *testing.T) {
	logger := logging.NewWithWriter("error", &bytes.Buffer{})

	t.Run("up treats no change as success", func(t *testing.T) {
		require.NoError(t, run(&fakeMigrator{upErr: migrate.ErrNoChange}, nil, logger))
	})

	t.Run("up surfaces failures", func(t *testing.T) {
		err := run(&fakeMigrator{upErr: errors.New("dirty database")}, []string{"up"}, logger)
		assert.EqualError(t, err, "dirty database")
	})

	t.Run("down rolls back n steps", func(t *testing.T) {
		m := &fakeMigrator{}
		require.NoError(t, run(m, []string{"down", "2"}, logger))
		assert.Equal(t, []int{-2}, m.steps)
	})

	t.Run("down rejects non-positive counts", func(t *testing.T) {
		assert.Error(t, run(&fakeMigrator{}, []string{"down", "0"}, logger))
		assert.Error(t, run(&fakeMigrator{}, []string{"down"}, logger))
	})

	t.Run("force accepts a version", func(t *testing.T) {
		m := &fakeMigrator{}
		require.NoError(t, run(m, []string{"force", "3"}, logger))
		assert.Equal(t, []int{3}, m.forced)
	})

	t.Run("version on empty database", func(t *testing.T) {
		require.NoError(t, run(&fakeMigrator{verErr: migrate.ErrNilVersion}, []string{"version"}, logger))
	})

	t.Run("unknown command", func(t *testing.T) {
		assert.EqualError(t, run(&fakeMigrator{}, []string{"sideways"}, logger), `unknown command "sideways"`)
	})
}

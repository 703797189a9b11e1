package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/upstream"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/game-portal/internal/infrastructure/config"
)

func TestParseFlags_BindsCatalogOverrides(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseFlags([]string{"--img", "game_img_5", "--prune", "--dry-run", "--timeout", "30s"}, &stderr)
	require.NoError(t, err)

	assert.True(t, opts.dryRun)
	assert.False(t, opts.quiet)
	assert.Equal(t, 30*time.Second, opts.timeout)
	assert.Equal(t, "game_img_5", opts.v.GetString("catalog.defaultImageStyle"))
	assert.True(t, opts.v.GetBool("catalog.prune"))
	assert.False(t, opts.v.IsSet("catalog.cdnUrl"), "unset flags leave config untouched")
}

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags(nil, &bytes.Buffer{})
	require.NoError(t, err)

	assert.False(t, opts.dryRun)
	assert.Equal(t, 5*time.Minute, opts.timeout)
	assert.False(t, opts.v.IsSet("catalog.defaultImageStyle"))
	assert.False(t, opts.v.IsSet("catalog.prune"))
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "unknown flag", args: []string{"--bogus"}, want: exitUsage},
		{name: "positional argument", args: []string{"extra"}, want: exitUsage},
		{name: "non-positive timeout", args: []string{"--timeout", "0s"}, want: exitUsage},
		{name: "help", args: []string{"--help"}, want: exitOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.want, run(tt.args, &stdout, &stderr))
			assert.Empty(t, stdout.String())
		})
	}
}

type schemaStub struct {
	checked  int
	migrated int
	err      error
}

func (s *schemaStub) CheckSchema(context.Context) error {
	s.checked++
	return s.err
}

func (s *schemaStub) Migrate(context.Context, bool) error {
	s.migrated++
	return s.err
}

func TestPrepareSchema(t *testing.T) {
	ctx := context.Background()

	t.Run("dry run only checks the version", func(t *testing.T) {
		db := &schemaStub{}
		require.NoError(t, prepareSchema(ctx, db, true))
		assert.Equal(t, 1, db.checked)
		assert.Zero(t, db.migrated)
	})

	t.Run("dry run fails on an outdated schema", func(t *testing.T) {
		db := &schemaStub{err: migration.ErrSchemaOutdated}
		assert.ErrorIs(t, prepareSchema(ctx, db, true), migration.ErrSchemaOutdated)
		assert.Zero(t, db.migrated)
	})

	t.Run("real run migrates", func(t *testing.T) {
		db := &schemaStub{}
		require.NoError(t, prepareSchema(ctx, db, false))
		assert.Equal(t, 1, db.migrated)
		assert.Zero(t, db.checked)
	})
}

func TestSyncOptions(t *testing.T) {
	cfg := &config.Config{Catalog: config.CatalogConfig{
		DefaultImageStyle: "game_img_6",
		CDNURL:            "https://cdn.example.com",
		Prune:             true,
	}}

	opts, err := syncOptions(cfg, true)
	require.NoError(t, err)
	assert.Equal(t, usecase.SyncOptions{
		ImageStyle: upstream.ImageStyle6,
		CDNURL:     "https://cdn.example.com",
		DryRun:     true,
		Prune:      true,
	}, opts)

	cfg.Catalog.DefaultImageStyle = "game_img_3"
	_, err = syncOptions(cfg, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--img")
}

func TestFailureReason(t *testing.T) {
	uerr := errs.NewUpstreamError("getGamesList", 502, "bad gateway", nil)
	assert.Equal(t, uerr.Error(), failureReason(fmt.Errorf("fetch: %w", uerr)))
	assert.Equal(t, "timed out", failureReason(fmt.Errorf("fetch: %w", context.DeadlineExceeded)))
	assert.Equal(t, "boom", failureReason(fmt.Errorf("boom")))
}

func TestPrintSummary(t *testing.T) {
	var out bytes.Buffer
	printSummary(&out, usecase.SyncOptions{ImageStyle: upstream.ImageStyle2}, &entity.SyncResult{
		Fetched:   12,
		Unique:    10,
		Inserted:  4,
		Updated:   3,
		Unchanged: 3,
		DryRun:    true,
	}, 1500*time.Millisecond)

	text := out.String()
	assert.Contains(t, text, "Catalog sync (dry run, rolled back, img=game_img_2, prune=false)")
	assert.Contains(t, text, "fetched:   12")
	assert.Contains(t, text, "unique:    10")
	assert.Contains(t, text, "inserted:  4")
	assert.Contains(t, text, "updated:   3")
	assert.Contains(t, text, "unchanged: 3")
	assert.Contains(t, text, "pruned:    0")
	assert.Contains(t, text, "elapsed:   1.5s")
}

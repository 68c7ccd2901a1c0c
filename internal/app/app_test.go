package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/casecard/internal/card"
	"github.com/youruser/casecard/internal/config"
	"github.com/youruser/casecard/internal/layout"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestBuildCatalogWithLayoutDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Render.LayoutDir = filepath.Join("..", "..", "configs", "layouts")
	cfg.Render.DefaultLayout = "kurdish"

	cat, err := BuildCatalog(cfg, discard(), nil)
	require.NoError(t, err)
	assert.Contains(t, cat.Names(), "kurdish")

	r, err := cat.Single("kurdish")
	require.NoError(t, err)
	assert.True(t, r.Spec().RightToLeft)
	assert.Equal(t, 1500, r.Spec().Width)
}

func TestBuildCatalogExtraReplacesByName(t *testing.T) {
	extra, ok := layout.Preset("suspect")
	require.True(t, ok)
	extra.Title = "Replaced"

	cat, err := BuildCatalog(testConfig(t), discard(), nil, extra)
	require.NoError(t, err)
	spec, _ := cat.Spec("suspect")
	assert.Equal(t, "Replaced", spec.Title)
	assert.Len(t, cat.Names(), 4)
}

func TestBuildCatalogMissingDefault(t *testing.T) {
	cfg := testConfig(t)
	cfg.Render.DefaultLayout = "absent"
	_, err := BuildCatalog(cfg, discard(), nil)
	assert.ErrorIs(t, err, card.ErrUnknownLayout)

	cfg = testConfig(t)
	cfg.Render.MultiLayout = "suspect"
	_, err = BuildCatalog(cfg, discard(), nil)
	assert.ErrorIs(t, err, card.ErrUnknownLayout)
}

func TestBuildCatalogBadLayoutFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("base: suspect\nheight: 700\n"), 0o644))
	cfg := testConfig(t)
	cfg.Render.LayoutDir = dir
	_, err := BuildCatalog(cfg, discard(), nil)
	assert.ErrorIs(t, err, card.ErrLayoutOverflow)
}

func TestBuildCatalogMissingFont(t *testing.T) {
	cfg := testConfig(t)
	cfg.Render.FontFile = filepath.Join(t.TempDir(), "none.ttf")
	_, err := BuildCatalog(cfg, discard(), nil)
	assert.Error(t, err)
}

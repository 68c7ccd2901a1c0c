// Package app wires configuration into renderers.
package app

import (
	"fmt"
	"log/slog"

	"github.com/youruser/casecard/internal/card"
	"github.com/youruser/casecard/internal/config"
	imagepkg "github.com/youruser/casecard/internal/image"
	"github.com/youruser/casecard/internal/layout"
)

// BuildCatalog loads the presets and the configured layout directory and
// builds a renderer for each. obs may be nil.
func BuildCatalog(cfg *config.Config, logger *slog.Logger, obs card.Observer, extra ...layout.Spec) (*card.Catalog, error) {
	specs, err := layout.Collect(cfg.Render.LayoutDir)
	if err != nil {
		return nil, err
	}
	for _, e := range extra {
		specs = replaceSpec(specs, e)
	}

	tf, err := imagepkg.LoadTypeface(cfg.Render.FontFile, cfg.Render.BoldFontFile)
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	opts := []card.Option{
		card.WithDecoder(imagepkg.PhotoDecoder{MaxPixels: cfg.Render.MaxPixels}),
		card.WithLogger(logger),
		card.WithTypeface(tf),
	}
	if obs != nil {
		opts = append(opts, card.WithObserver(obs))
	}
	cat, err := card.NewCatalog(specs, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := cat.Single(cfg.Render.DefaultLayout); err != nil {
		return nil, fmt.Errorf("default layout: %w", err)
	}
	if _, err := cat.Multi(cfg.Render.MultiLayout); err != nil {
		return nil, fmt.Errorf("multi layout: %w", err)
	}
	return cat, nil
}

// replaceSpec swaps in s for a layout of the same name or appends it.
func replaceSpec(specs []layout.Spec, s layout.Spec) []layout.Spec {
	for i := range specs {
		if specs[i].Name == s.Name {
			specs[i] = s
			return specs
		}
	}
	return append(specs, s)
}

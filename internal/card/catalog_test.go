package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/casecard/internal/layout"
)

func TestCatalog(t *testing.T) {
	c, err := NewCatalog(layout.Presets())
	require.NoError(t, err)
	assert.Equal(t, []string{"compact", "multi", "suspect", "suspect-side"}, c.Names())

	r, err := c.Single("suspect")
	require.NoError(t, err)
	assert.Equal(t, "suspect", r.Spec().Name)

	m, err := c.Multi("multi")
	require.NoError(t, err)
	assert.Equal(t, KindMulti, m.Spec().Kind)

	_, err = c.Single("multi")
	assert.ErrorIs(t, err, ErrUnknownLayout)
	_, err = c.Multi("suspect")
	assert.ErrorIs(t, err, ErrUnknownLayout)
	_, err = c.Single("nope")
	assert.ErrorIs(t, err, ErrUnknownLayout)

	spec, ok := c.Spec("compact")
	require.True(t, ok)
	spec.Sections[0].Title = "changed"
	again, _ := c.Spec("compact")
	assert.NotEqual(t, "changed", again.Sections[0].Title)
}

func TestCatalogRejectsDuplicatesAndBadLayouts(t *testing.T) {
	s := preset(t, "suspect")
	_, err := NewCatalog([]layout.Spec{s, s})
	assert.ErrorIs(t, err, layout.ErrInvalid)

	bad := preset(t, "suspect")
	bad.Name = "tiny"
	bad.Height = 600
	_, err = NewCatalog([]layout.Spec{bad})
	assert.ErrorIs(t, err, ErrLayoutOverflow)
}

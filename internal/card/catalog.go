package card

import (
	"errors"
	"fmt"
	"sort"

	"github.com/youruser/casecard/internal/layout"
)

var ErrUnknownLayout = errors.New("unknown layout")

// Catalog holds one renderer per named layout.
type Catalog struct {
	single map[string]*Renderer
	multi  map[string]*MultiRenderer
	specs  map[string]layout.Spec
}

// NewCatalog builds renderers for specs. Any layout that fails validation
// or the fit check fails the whole catalog.
func NewCatalog(specs []layout.Spec, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		single: map[string]*Renderer{},
		multi:  map[string]*MultiRenderer{},
		specs:  map[string]layout.Spec{},
	}
	for _, s := range specs {
		s.Normalize()
		if _, dup := c.specs[s.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate layout %q", layout.ErrInvalid, s.Name)
		}
		switch s.Kind {
		case KindMulti:
			m, err := NewMultiRenderer(s, opts...)
			if err != nil {
				return nil, err
			}
			c.multi[s.Name] = m
			c.specs[s.Name] = m.spec
		default:
			r, err := NewRenderer(s, opts...)
			if err != nil {
				return nil, err
			}
			c.single[s.Name] = r
			c.specs[s.Name] = r.spec
		}
	}
	return c, nil
}

// Names lists every layout, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.specs))
	for n := range c.specs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) Spec(name string) (layout.Spec, bool) {
	s, ok := c.specs[name]
	if !ok {
		return layout.Spec{}, false
	}
	return s.Clone(), true
}

func (c *Catalog) Single(name string) (*Renderer, error) {
	if r, ok := c.single[name]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: %q is not a single card layout", ErrUnknownLayout, name)
}

func (c *Catalog) Multi(name string) (*MultiRenderer, error) {
	if m, ok := c.multi[name]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q is not a multi-person layout", ErrUnknownLayout, name)
}

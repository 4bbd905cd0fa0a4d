package syringe_test

import (
	"github.com/jt05610/syringe/syringe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestBuiltin(t *testing.T) {
	c := syringe.Builtin()
	g, ok := c.Lookup("default")
	require.True(t, ok)
	assert.Equal(t, 20.0, g.DiameterMM)

	g, ok = c.Lookup(" BD-60ml ")
	require.True(t, ok)
	assert.Equal(t, 26.7, g.DiameterMM)

	_, ok = c.Lookup("nope")
	assert.False(t, ok)

	names := c.Names()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "bd-5ml")
}

func TestLoadCatalog(t *testing.T) {
	c, err := syringe.LoadCatalog(strings.NewReader(`
presets:
  - name: Hamilton-250ul
    diameter_mm: 2.3
`))
	require.NoError(t, err)
	g, ok := c.Lookup("hamilton-250ul")
	require.True(t, ok)
	assert.Equal(t, 2.3, g.DiameterMM)
}

func TestLoadCatalogRejectsBadDiameter(t *testing.T) {
	_, err := syringe.LoadCatalog(strings.NewReader(`
presets:
  - name: broken
    diameter_mm: 0
`))
	require.ErrorIs(t, err, syringe.ErrInvalidGeometry)
}

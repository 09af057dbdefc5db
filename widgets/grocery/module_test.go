package grocery

import (
	"testing"

	"github.com/stickernest/stickernest/internal/manifest"
	"github.com/stickernest/stickernest/internal/preset"
	"github.com/stickernest/stickernest/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleRegistersCatalog(t *testing.T) {
	t.Parallel()
	r := registry.New()
	(&Module{}).Register(r)

	assert.Equal(t, len(WidgetIDs), r.Len())
	for _, id := range WidgetIDs {
		assert.True(t, r.Has(id), "missing widget %s", id)
	}
}

func TestEveryManifestIsValid(t *testing.T) {
	t.Parallel()
	for id, w := range Widgets() {
		assert.NoError(t, manifest.Validate(w.Manifest), "manifest %s", id)
	}
}

func TestEveryTemplateResolves(t *testing.T) {
	t.Parallel()
	for id, w := range Widgets() {
		assert.NotEmpty(t, w.HTML(), "template for %s", id)
	}
}

func TestBuiltinGroceryPresetWiresCleanly(t *testing.T) {
	t.Parallel()
	r := registry.New()
	(&Module{}).Register(r)

	presets, err := preset.Builtin()
	require.NoError(t, err)

	var grocery *preset.Preset
	for _, p := range presets {
		if p.ID == "grocery-management-pipeline" {
			grocery = p
		}
	}
	require.NotNil(t, grocery)

	res := preset.Validate(grocery, r)
	assert.True(t, res.Valid, "errors: %v", res.Errors)
	assert.Empty(t, res.Warnings)
}

package nebula

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHud_Tick(t *testing.T) {
	hud := NewHud(nil)
	for i := 0; i < 49; i++ {
		hud.Tick(20 * time.Millisecond)
	}
	assert.Zero(t, hud.FPS)

	hud.Tick(20 * time.Millisecond)
	assert.InDelta(t, 50, hud.FPS, 1e-9)
}

func TestHudSystem_FillsDisplay(t *testing.T) {
	app, _ := newHeadlessApp(t, 800, 600)
	display, _ := Resource[Display](app)
	hud, _ := Resource[Hud](app)

	app.Step()

	require.Len(t, display.Text, 1)
	assert.Contains(t, display.Text[0].Text, "16 particles")
	assert.Contains(t, display.Text[0].Text, "hue ")
	assert.Same(t, hud.Atlas, display.TextAtlas)

	hud.Enabled = false
	app.Step()

	assert.Empty(t, display.Text)
	assert.Nil(t, display.TextAtlas)
}

func TestHudModule_BadFontFallsBack(t *testing.T) {
	app := NewFrameDriver().
		UseModule(HudModule{FontPath: "/does/not/exist.ttf"}).
		Build()

	hud, ok := Resource[Hud](app)
	require.True(t, ok)
	assert.NotNil(t, hud.Atlas)
	assert.False(t, hud.Enabled)
	assert.NoError(t, app.Err())
}

package graph

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegister_Idempotent(t *testing.T) {
	Register()
	Register()
	ct, ok := ContentType("png")
	require.True(t, ok)
	require.Equal(t, "image/png", ct)
	_, ok = ContentType("gif")
	require.False(t, ok)
}

func TestRenderer_PNG(t *testing.T) {
	p := Project(hourly(24, "USD", "EUR"), "USD → EUR")
	v := NewViewport(p, DefaultViewportOptions())
	v.ZoomIn()

	var buf bytes.Buffer
	r := NewRenderer(640, 320, UnitHour)
	require.NoError(t, r.Render(&buf, "png", p, v.Window()))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestRenderer_SVG(t *testing.T) {
	p := Project(hourly(6, "USD", "EUR"), "USD → EUR")
	var buf bytes.Buffer
	r := NewRenderer(0, 0, UnitAuto)
	require.NoError(t, r.Render(&buf, "svg", p, NewViewport(p, ViewportOptions{}).Window()))
	require.Contains(t, buf.String(), "<svg")
}

func TestRenderer_SinglePoint(t *testing.T) {
	p := Project(hourly(1, "USD", "EUR"), "USD → EUR")
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(400, 200, "").Render(&buf, "png", p, Window{Min: t0, Max: t0}))
	require.NotZero(t, buf.Len())
}

func TestRenderer_Errors(t *testing.T) {
	r := NewRenderer(400, 200, "")
	var buf bytes.Buffer
	require.ErrorIs(t, r.Render(&buf, "png", Projection{}, Window{}), ErrEmptyDataset)

	p := Project(hourly(3, "USD", "EUR"), "USD → EUR")
	outside := Window{Min: t0.Add(-48 * time.Hour), Max: t0.Add(-24 * time.Hour)}
	require.ErrorIs(t, r.Render(&buf, "png", p, outside), ErrEmptyDataset)
	require.ErrorIs(t, r.Render(&buf, "bmp", p, Window{Min: t0, Max: t0.Add(time.Hour)}), ErrUnsupportedFormat)
}

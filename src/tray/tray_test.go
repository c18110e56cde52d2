package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPNG(t *testing.T) {
	data, err := renderPNG()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, iconSize, img.Bounds().Dx())
	assert.Equal(t, iconSize, img.Bounds().Dy())
}

func TestWrapICO(t *testing.T) {
	payload := []byte("png-bytes")
	ico := wrapICO(payload, 16)

	require.Len(t, ico, 22+len(payload))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(ico[2:]), "icon type")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(ico[4:]), "image count")
	assert.Equal(t, uint8(16), ico[6])
	assert.Equal(t, uint32(len(payload)), binary.LittleEndian.Uint32(ico[14:]))
	assert.Equal(t, uint32(22), binary.LittleEndian.Uint32(ico[18:]))
	assert.Equal(t, payload, ico[22:])
}

func TestIcon(t *testing.T) {
	assert.NotEmpty(t, Icon())
}

func TestMenuCallbacks(t *testing.T) {
	var unpinned, exited int
	tr, err := New(Config{
		OnUnpin: func() { unpinned++ },
		OnExit:  func() { exited++ },
	})
	require.NoError(t, err)
	assert.Equal(t, "Pop Translate", tr.cfg.Title)
	assert.Equal(t, tr.cfg.Title, tr.cfg.Tooltip)

	tr.unpin()
	tr.exit()
	tr.exit()
	assert.Equal(t, 1, unpinned)
	assert.Equal(t, 1, exited, "exit callback runs once")
}

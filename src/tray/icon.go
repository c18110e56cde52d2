package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"
)

const iconSize = 16

var (
	bubble = color.NRGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff}
	glyph  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Icon returns the tray icon in the format systray expects on this platform:
// ICO on Windows, PNG elsewhere.
func Icon() []byte {
	data, err := renderPNG()
	if err != nil {
		return nil
	}
	if runtime.GOOS == "windows" {
		return wrapICO(data, iconSize)
	}
	return data
}

// renderPNG draws a speech bubble with a short text line.
func renderPNG() ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	for y := 1; y < 11; y++ {
		for x := 1; x < 15; x++ {
			if (y == 1 || y == 10) && (x == 1 || x == 14) {
				continue
			}
			img.Set(x, y, bubble)
		}
	}
	// Tail.
	for i := 0; i < 4; i++ {
		for x := 3; x < 7-i; x++ {
			img.Set(x, 11+i, bubble)
		}
	}
	for x := 4; x < 12; x++ {
		img.Set(x, 4, glyph)
		if x < 10 {
			img.Set(x, 7, glyph)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrapICO embeds a PNG image in a single-entry ICO container.
func wrapICO(pngData []byte, size int) []byte {
	var buf bytes.Buffer
	header := struct {
		Reserved, Type, Count uint16
	}{0, 1, 1}
	entry := struct {
		Width, Height, Colors, Reserved uint8
		Planes, BitCount                uint16
		Size, Offset                    uint32
	}{
		Width:    uint8(size),
		Height:   uint8(size),
		Planes:   1,
		BitCount: 32,
		Size:     uint32(len(pngData)),
		Offset:   6 + 16,
	}
	_ = binary.Write(&buf, binary.LittleEndian, header)
	_ = binary.Write(&buf, binary.LittleEndian, entry)
	buf.Write(pngData)
	return buf.Bytes()
}

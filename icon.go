package main

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
)

const (
	appName     = "win-c-hjkl"
	trayTooltip = "CapsLock→Ctrl, Ctrl+HJKL→Arrows"

	iconSize = 64
)

var (
	iconBorder = color.RGBA{200, 200, 200, 255}
	iconDot    = color.RGBA{255, 255, 255, 255}
	iconArrow  = color.RGBA{100, 200, 255, 255}
)

// drawIcon renders a key cap with four dots for H, J, K and L and a small
// arrow under each.
func drawIcon() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))

	for y := 12; y < 52; y++ {
		for x := 12; x < 52; x++ {
			if x == 12 || x == 51 || y == 12 || y == 51 {
				img.SetRGBA(x, y, iconBorder)
				continue
			}
			img.SetRGBA(x, y, color.RGBA{80, 60, uint8(60 + (y-12)*2), 255})
		}
	}

	for _, cx := range []int{18, 26, 34, 42} {
		for dy := 0; dy < 3; dy++ {
			for dx := 0; dx < 3; dx++ {
				img.SetRGBA(cx+dx, 26+dy, iconDot)
			}
		}
	}

	const ay = 38
	arrows := [][]image.Point{
		{{19, ay}, {20, ay - 1}, {20, ay + 1}}, // left
		{{27, ay + 1}, {26, ay}, {28, ay}},     // down
		{{35, ay - 1}, {34, ay}, {36, ay}},     // up
		{{43, ay}, {42, ay - 1}, {42, ay + 1}}, // right
	}
	for _, pts := range arrows {
		for _, p := range pts {
			img.SetRGBA(p.X, p.Y, iconArrow)
		}
	}
	return img
}

// encodeICO wraps img as a single PNG image inside an ICO container.
func encodeICO(img image.Image) ([]byte, error) {
	var payload bytes.Buffer
	if err := png.Encode(&payload, img); err != nil {
		return nil, err
	}

	b := img.Bounds()
	dim := func(n int) uint8 {
		if n >= 256 {
			return 0 // 0 means 256 in ICONDIRENTRY
		}
		return uint8(n)
	}

	header := struct {
		Reserved, Type, Count uint16
		Width, Height         uint8
		Colors, Reserved2     uint8
		Planes, BitCount      uint16
		Size, Offset          uint32
	}{
		Type:     1,
		Count:    1,
		Width:    dim(b.Dx()),
		Height:   dim(b.Dy()),
		Planes:   1,
		BitCount: 32,
		Size:     uint32(payload.Len()),
		Offset:   6 + 16,
	}

	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, header); err != nil {
		return nil, err
	}
	out.Write(payload.Bytes())
	return out.Bytes(), nil
}

func trayIcon() ([]byte, error) {
	return encodeICO(drawIcon())
}

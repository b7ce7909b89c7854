package main

import (
	"image"

	"github.com/gogpu/swbuf"
)

// scene is a gradient with a bouncing square. Only the square moves, so
// each frame damages the union of its old and new positions.
type scene struct {
	width, height int
	size          int
}

func newScene(width, height int) scene {
	return scene{width: width, height: height, size: max(min(width, height)/4, 1)}
}

func (s scene) bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// box returns the square's position in frame n.
func (s scene) box(n int) image.Rectangle {
	travel := max(s.width-s.size, 1)
	x := n % (2 * travel)
	if x >= travel {
		x = 2*travel - x
	}
	y := (s.height - s.size) / 2
	return image.Rect(x, y, x+s.size, y+s.size).Intersect(s.bounds())
}

func (s scene) at(x, y int, box image.Rectangle) swbuf.Pixel {
	if image.Pt(x, y).In(box) {
		return swbuf.Pixel{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return swbuf.Pixel{
		R: uint8(x * 255 / max(s.width-1, 1)),
		G: uint8(y * 255 / max(s.height-1, 1)),
		B: 0x40,
		A: 0xff,
	}
}

func (s scene) paint(buf *swbuf.Buffer, r image.Rectangle, box image.Rectangle) {
	px := buf.PixelsMut()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := px[y*buf.Stride():]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = s.at(x, y, box)
		}
	}
}

// draw renders frame n into buf and returns the damage to present. It
// repaints only what the buffer's age says is stale plus what moved.
func (s scene) draw(buf *swbuf.Buffer, n int) []swbuf.Rect {
	box := s.box(n)
	if buf.Age() == 0 {
		s.paint(buf, s.bounds(), box)
		return []swbuf.Rect{rect(s.bounds())}
	}
	stale, ok := buf.Damage()
	if !ok {
		s.paint(buf, s.bounds(), box)
		return []swbuf.Rect{rect(s.bounds())}
	}

	moved := box
	if n > 0 {
		moved = moved.Union(s.box(n - 1))
	}
	s.paint(buf, moved.Union(stale.Image()).Intersect(s.bounds()), box)
	return []swbuf.Rect{rect(moved)}
}

func rect(r image.Rectangle) swbuf.Rect {
	return swbuf.Rect{
		X:      uint32(r.Min.X),
		Y:      uint32(r.Min.Y),
		Width:  uint32(r.Dx()),
		Height: uint32(r.Dy()),
	}
}

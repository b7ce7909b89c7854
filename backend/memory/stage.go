// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package memory

import (
	"image"

	"github.com/gogpu/swbuf"
	"github.com/gogpu/swbuf/pixfmt"
)

// stage mirrors the frame as an image.Image so x/image/draw can composite
// it. Only damaged rows are re-encoded.
type stage struct {
	rgba  *image.RGBA
	nrgba *image.NRGBA
}

// update re-encodes the damaged parts of f and returns the staged image.
// Opaque frames get their alpha forced to 0xff; postmultiplied frames are
// staged as NRGBA so image/draw premultiplies them.
func (st *stage) update(f swbuf.Frame) (image.Image, error) {
	rect := image.Rect(0, 0, f.Width, f.Height)

	var (
		pix    []byte
		stride int
		format pixfmt.Format
		img    image.Image
	)
	switch f.Alpha {
	case swbuf.AlphaPostmultiplied:
		if st.nrgba == nil || st.nrgba.Rect != rect {
			st.nrgba = image.NewNRGBA(rect)
		}
		pix, stride, format, img = st.nrgba.Pix, st.nrgba.Stride, pixfmt.FormatRgba8, st.nrgba
	case swbuf.AlphaPremultiplied:
		if st.rgba == nil || st.rgba.Rect != rect {
			st.rgba = image.NewRGBA(rect)
		}
		pix, stride, format, img = st.rgba.Pix, st.rgba.Stride, pixfmt.FormatRgba8, st.rgba
	default:
		if st.rgba == nil || st.rgba.Rect != rect {
			st.rgba = image.NewRGBA(rect)
		}
		pix, stride, format, img = st.rgba.Pix, st.rgba.Stride, pixfmt.FormatRgbx8, st.rgba
	}

	for _, r := range f.Damage {
		x0, x1 := int(r.X), int(r.Right())
		for y := int(r.Y); y < int(r.Bottom()); y++ {
			row := f.Pixels[y*f.Width+x0 : y*f.Width+x1]
			if err := pixfmt.EncodeRow(pix[y*stride+x0*4:], row, format); err != nil {
				return nil, err
			}
		}
	}
	return img, nil
}

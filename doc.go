// Package swbuf presents CPU-rendered pixel buffers to a display.
//
// # Overview
//
// swbuf sits between code that draws pixels in memory and whatever shows
// them: a framebuffer device, a GPU texture owned by a host toolkit, a
// terminal, or an in-memory target for tests. Applications write canonical
// 32-bit pixels into a Buffer and present it; a backend does the rest.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/swbuf"
//	    _ "github.com/gogpu/swbuf/backend/memory"
//	)
//
//	ctx, err := swbuf.NewContext(display)
//	if err != nil { ... }
//	s, err := swbuf.NewSurface(ctx, window, swbuf.WithSize(640, 480))
//	if err != nil { ... }
//
//	for {
//	    s.Resize(w, h) // cheap when unchanged
//	    buf, err := s.BufferMut()
//	    if err != nil { ... }
//	    buf.Fill(pixfmt.RGB(0x20, 0x20, 0x40))
//	    if err := buf.Present(); err != nil { ... }
//	}
//
// # Buffers and Ages
//
// A surface owns two storage slots. BufferMut hands out the back slot; a
// successful present makes it the front slot. Buffer.Age tells how stale
// the contents are (0 indeterminate, 1 equal to the screen, N shown N
// frames ago) and Buffer.Damage returns what must be redrawn to bring them
// up to date. WithSingleBuffer uses one slot for backends that copy frames
// during submission.
//
// # Damage
//
// PresentWithDamage accepts rectangles that changed. They are validated
// against the buffer size before anything is submitted; backends that
// accept a single region receive the bounding box.
//
// # Drivers
//
// Backends register a Driver from init. NewContext probes them from the
// highest priority down and uses the first that accepts the display
// handle. Importing a backend package enables it.
//
// # Pixel Formats
//
// Package pixfmt defines the canonical Pixel and converts about thirty
// foreign layouts into it; Buffer.WritePixels is a shortcut.
//
// # Logging
//
// swbuf is silent by default. Call SetLogger to enable structured logging
// through log/slog.
package swbuf

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux

package fbdev

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/gogpu/swbuf"
	"github.com/gogpu/swbuf/internal/affinity"
)

// ioctl requests from linux/fb.h.
const (
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

// fbVisualTrueColor is FB_VISUAL_TRUECOLOR.
const fbVisualTrueColor = 2

type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// fbVarScreenInfo mirrors struct fb_var_screeninfo.
type fbVarScreenInfo struct {
	XRes, YRes               uint32
	XResVirtual, YResVirtual uint32
	XOffset, YOffset         uint32
	BitsPerPixel             uint32
	Grayscale                uint32
	Red, Green, Blue, Transp fbBitfield
	NonStd                   uint32
	Activate                 uint32
	Height, Width            uint32
	AccelFlags               uint32
	PixClock                 uint32
	LeftMargin, RightMargin  uint32
	UpperMargin, LowerMargin uint32
	HSyncLen, VSyncLen       uint32
	Sync                     uint32
	VMode                    uint32
	Rotate                   uint32
	Colorspace               uint32
	Reserved                 [4]uint32
}

// fbFixScreenInfo mirrors struct fb_fix_screeninfo.
type fbFixScreenInfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// Mappings are created and torn down on one thread so device state changes
// are serialized across contexts.
var devices = affinity.For[*device]("fbdev")

func init() {
	swbuf.Register(Name, 20, driver{})
}

type device struct {
	fd      int
	mapping []byte
	scr     screen
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg)); errno != 0 {
		return errno
	}
	return nil
}

func openDevice(path string) (*device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}

	var v fbVarScreenInfo
	var f fbFixScreenInfo
	if err := ioctl(fd, fbioGetVScreenInfo, unsafe.Pointer(&v)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("FBIOGET_VSCREENINFO: %w", err)
	}
	if err := ioctl(fd, fbioGetFScreenInfo, unsafe.Pointer(&f)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("FBIOGET_FSCREENINFO: %w", err)
	}
	if f.Visual != fbVisualTrueColor {
		unix.Close(fd)
		return nil, fmt.Errorf("visual %d is not true color", f.Visual)
	}

	l := Layout{
		BitsPerPixel: int(v.BitsPerPixel),
		Red:          Bitfield{v.Red.Offset, v.Red.Length},
		Green:        Bitfield{v.Green.Offset, v.Green.Length},
		Blue:         Bitfield{v.Blue.Offset, v.Blue.Length},
		Transp:       Bitfield{v.Transp.Offset, v.Transp.Length},
	}
	if err := l.Validate(); err != nil {
		unix.Close(fd)
		return nil, err
	}

	mem, err := unix.Mmap(fd, 0, int(f.SmemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("mmap: %w", err)
	}

	// Draw into the visible page of a panned virtual screen.
	start := int(v.YOffset)*int(f.LineLength) + int(v.XOffset)*l.BytesPerPixel()
	return &device{
		fd:      fd,
		mapping: mem,
		scr: screen{
			mem:        mem[start:],
			width:      int(v.XRes),
			height:     int(v.YRes),
			lineLength: int(f.LineLength),
			layout:     l,
		},
	}, nil
}

func closeDevice(d *device) error {
	err := unix.Munmap(d.mapping)
	if cerr := unix.Close(d.fd); err == nil {
		err = cerr
	}
	return err
}

type driver struct{}

func (driver) Name() string { return Name }

func (driver) OpenContext(display any) (swbuf.ContextBackend, error) {
	d, ok := display.(*Display)
	if !ok {
		return nil, swbuf.ErrUnsupported
	}
	path := d.Path
	if path == "" {
		path = DefaultPath
	}
	dev, err := devices.Allocate(func() (*device, error) { return openDevice(path) })
	if err != nil {
		return nil, swbuf.Platform("fbdev: open "+path, err)
	}
	swbuf.Logger().Debug("fbdev: mapped", "path", path,
		"width", dev.scr.width, "height", dev.scr.height, "bpp", dev.scr.layout.BitsPerPixel)
	return &contextBackend{dev: dev}, nil
}

type contextBackend struct {
	mu     sync.Mutex
	dev    *device
	closed bool
}

func (c *contextBackend) OpenSurface(window any) (swbuf.SurfaceBackend, error) {
	var w Window
	switch win := window.(type) {
	case Window:
		w = win
	case *Window:
		w = *win
	default:
		return nil, swbuf.ErrUnsupported
	}
	if w.X < 0 || w.Y < 0 || w.X >= c.dev.scr.width || w.Y >= c.dev.scr.height {
		return nil, swbuf.Platform("fbdev: window outside screen", nil)
	}
	return &surface{c: c, w: w}, nil
}

// Close unmaps the device. Surfaces must be closed first.
func (c *contextBackend) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return devices.Release(closeDevice, c.dev)
}

type surface struct {
	c *contextBackend
	w Window
}

func (s *surface) Capabilities() swbuf.Capabilities {
	return s.c.dev.scr.capabilities(s.w)
}

func (s *surface) Submit(f swbuf.Frame) error {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	if s.c.closed {
		return swbuf.Platform("fbdev: context closed", nil)
	}
	s.c.dev.scr.write(s.w, f)
	return nil
}

func (s *surface) Fetch(width, height int) ([]swbuf.Pixel, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	if s.c.closed {
		return nil, swbuf.Platform("fbdev: context closed", nil)
	}
	return s.c.dev.scr.read(s.w, width, height), nil
}

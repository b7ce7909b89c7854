// Command swbufdemo animates a bouncing square through any swbuf backend.
//
// Usage:
//
//	swbufdemo [-config demo.toml] [-backend auto|memory|term|ebitengine|fbdev] [flags]
//
// With -backend auto the terminal backend is used when stdout is a
// terminal, otherwise frames are rendered in memory and the last one is
// saved as a PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/gogpu/swbuf"
	"github.com/gogpu/swbuf/backend/ebitengine"
	"github.com/gogpu/swbuf/backend/fbdev"
	"github.com/gogpu/swbuf/backend/memory"
	swterm "github.com/gogpu/swbuf/backend/term"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		backend    = flag.String("backend", "", "backend: auto, memory, term, ebitengine or fbdev")
		width      = flag.Int("width", 0, "surface width in pixels")
		height     = flag.Int("height", 0, "surface height in pixels")
		frames     = flag.Int("frames", -1, "frames to render (0 = until interrupted)")
		output     = flag.String("output", "", "PNG written by the memory backend")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			log.Fatalf("swbufdemo: %v", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backend
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "frames":
			cfg.Frames = *frames
		case "output":
			cfg.Output = *output
		case "v":
			if *verbose {
				cfg.LogLevel = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("swbufdemo: %v", err)
	}

	level, _ := cfg.level()
	swbuf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cfg.resolveBackend(term.IsTerminal(int(os.Stdout.Fd()))) {
	case "memory":
		err = runMemory(cfg)
	case "term":
		err = runTerm(ctx, cfg)
	case "ebitengine":
		err = runEbitengine(ctx, cfg)
	case "fbdev":
		err = runFbdev(ctx, cfg)
	}
	if err != nil {
		log.Fatalf("swbufdemo: %v", err)
	}
}

// animate renders frames into s until n frames are done, ctx ends, or a
// present fails. n == 0 means no frame limit.
func animate(ctx context.Context, s *swbuf.Surface, n, fps int) error {
	w, h := s.Size()
	sc := newScene(w, h)

	var tick <-chan time.Time
	if fps > 0 {
		t := time.NewTicker(time.Second / time.Duration(fps))
		defer t.Stop()
		tick = t.C
	}
	for i := 0; n == 0 || i < n; i++ {
		buf, err := s.BufferMut()
		if err != nil {
			return err
		}
		if err := buf.PresentWithDamage(sc.draw(buf, i)); err != nil {
			return err
		}
		if tick == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
		}
	}
	return nil
}

func runMemory(cfg Config) error {
	window := memory.NewWindow(memory.DefaultConfig())
	ctx, err := swbuf.NewContext(memory.NewDisplay())
	if err != nil {
		return err
	}
	defer ctx.Close()

	s, err := swbuf.NewSurface(ctx, window, swbuf.WithSize(cfg.Width, cfg.Height))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := animate(context.Background(), s, max(cfg.Frames, 1), 0); err != nil {
		return err
	}
	if cfg.Output == "" {
		return nil
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	if err := png.Encode(f, window.Image()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	swbuf.Logger().Info("swbufdemo: wrote image", "path", cfg.Output, "frames", window.Frames())
	return nil
}

func runTerm(ctx context.Context, cfg Config) error {
	scr, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := scr.Init(); err != nil {
		return err
	}
	defer scr.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for {
			switch ev := scr.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					cancel()
					return
				}
			}
		}
	}()

	sctx, err := swbuf.NewContext(scr)
	if err != nil {
		return err
	}
	defer sctx.Close()

	s, err := swbuf.NewSurface(sctx, swterm.Region{})
	if err != nil {
		return err
	}
	defer s.Close()

	caps := s.Capabilities()
	if err := s.Resize(min(cfg.Width, caps.MaxWidth), min(cfg.Height, caps.MaxHeight)); err != nil {
		return err
	}
	return animate(ctx, s, cfg.Frames, cfg.FPS)
}

func runEbitengine(ctx context.Context, cfg Config) error {
	target := ebitengine.NewTarget()
	sctx, err := swbuf.NewContext(&ebitengine.Display{Title: "swbufdemo", Scale: cfg.Scale})
	if err != nil {
		return err
	}
	defer sctx.Close()

	s, err := swbuf.NewSurface(sctx, target, swbuf.WithSize(cfg.Width, cfg.Height))
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() {
		err := animate(ctx, s, cfg.Frames, cfg.FPS)
		_ = target.Close()
		errc <- err
	}()

	if err := ebitengine.Run(sctx, &ebitengine.Game{Target: target}); err != nil {
		return fmt.Errorf("ebitengine: %w", err)
	}
	cancel()
	return <-errc
}

func runFbdev(ctx context.Context, cfg Config) error {
	sctx, err := swbuf.NewContext(&fbdev.Display{Path: cfg.Device})
	if err != nil {
		return err
	}
	defer sctx.Close()

	s, err := swbuf.NewSurface(sctx, fbdev.Window{})
	if err != nil {
		return err
	}
	defer s.Close()

	caps := s.Capabilities()
	if err := s.Resize(min(cfg.Width, caps.MaxWidth), min(cfg.Height, caps.MaxHeight)); err != nil {
		return err
	}
	return animate(ctx, s, cfg.Frames, cfg.FPS)
}

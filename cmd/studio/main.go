// Package main is the headless animation studio: it drives the
// orchestrator through a scripted sequence and writes the rendered
// frames as WebP files.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"go.uber.org/zap"

	"github.com/Faultbox/animestudio/internal/config"
	"github.com/Faultbox/animestudio/internal/engine/animator"
	"github.com/Faultbox/animestudio/internal/logger"
)

var flagPortrait = flag.String("portrait", "", "Character portrait image (PNG or JPEG)")

// scriptEvent fires a set of commands once its time is reached.
type scriptEvent struct {
	at    float64
	apply func(*animator.Animator)
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== AnimeStudio ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	a := animator.New(cfg, logger.Log)
	a.LoadPortrait(loadPortrait(cfg))

	if err := run(a, cfg); err != nil {
		logger.Error("render failed", zap.Error(err))
		os.Exit(1)
	}

	m := a.Metrics()
	logger.Info("render complete",
		zap.Float64("avg_fps", m.AverageFPS()),
		zap.Float64("frame_ms", m.FrameMS),
		zap.Float64("skeletal_ms", m.SkeletalMS),
		zap.Float64("facial_ms", m.FacialMS),
		zap.Float64("render_ms", m.RenderMS),
		zap.Int("bones", m.Bones),
		zap.Int("active_shapes", m.ActiveShapes))
}

func run(a *animator.Animator, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	frames := cfg.Output.Frames
	if frames <= 0 {
		frames = 6 * cfg.Graphics.FPS // one loop of the demo script
	}
	dt := 1.0 / float64(cfg.Graphics.FPS)

	script := demoScript()
	next := 0
	elapsed := 0.0

	for i := 0; i < frames; i++ {
		for next < len(script) && elapsed >= script[next].at {
			script[next].apply(a)
			next++
		}

		frame := a.Update(dt)
		elapsed += dt

		path := filepath.Join(cfg.Output.Dir, fmt.Sprintf("frame_%04d.webp", i))
		if err := writeWebP(path, frame); err != nil {
			return err
		}
	}

	logger.Info("frames written",
		zap.Int("frames", frames),
		zap.String("dir", cfg.Output.Dir))
	return nil
}

// demoScript exercises poses, emotions, speech and viewing angles.
func demoScript() []scriptEvent {
	return []scriptEvent{
		{0, func(a *animator.Animator) {
			a.SetPose("idle", 0.5)
			a.SetEmotion("neutral", 1, 0.3)
		}},
		{1, func(a *animator.Animator) {
			a.SetPose("wave", 0.3)
			a.SetEmotion("happy", 0.9, 0.3)
		}},
		{2, func(a *animator.Animator) {
			a.TriggerGesture("nod")
			a.Speak("hello there nice to meet you")
		}},
		{3, func(a *animator.Animator) {
			a.SetPose("peace_sign", 0.3)
			a.SetEmotion("excited", 1, 0.3)
			a.SetViewAngle(30, 0)
		}},
		{4.5, func(a *animator.Animator) {
			a.SetPose("thinking", 0.5)
			a.SetEmotion("surprised", 0.7, 0.4)
			a.SetViewAngle(-40, 10)
			a.SetLookingDirection(-0.6, 0.3)
		}},
		{5.5, func(a *animator.Animator) {
			a.SetPose("dancing", 0.2)
			a.SetEmotion("happy", 1, 0.2)
			a.SetViewAngle(0, 0)
			a.SetLookingDirection(0, 0)
		}},
	}
}

// loadPortrait reads the portrait image, or synthesizes a flat
// placeholder so the layer stack always has textures.
func loadPortrait(cfg *config.Config) image.Image {
	if *flagPortrait != "" {
		f, err := os.Open(*flagPortrait)
		if err == nil {
			defer f.Close()
			img, _, err := image.Decode(f)
			if err == nil {
				logger.Info("portrait loaded", zap.String("path", *flagPortrait))
				return img
			}
			logger.Warn("portrait decode failed, using placeholder", zap.Error(err))
		} else {
			logger.Warn("portrait open failed, using placeholder", zap.Error(err))
		}
	}

	w, h := cfg.Graphics.Width, cfg.Graphics.Height
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		shade := uint8(180 + 40*y/h)
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: shade, G: shade - 30, B: shade - 50, A: 255})
		}
	}
	return img
}

func writeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/audio-particles/internal/audio"
	"github.com/iburimskiy/audio-particles/internal/config"
	"github.com/iburimskiy/audio-particles/internal/game"
	"github.com/iburimskiy/audio-particles/internal/loop"
	"github.com/iburimskiy/audio-particles/internal/status"
	"github.com/iburimskiy/audio-particles/internal/stream"
	"github.com/iburimskiy/audio-particles/internal/term"
)

func envOr(name, def string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return def
}

type override struct {
	name, value string
}

func main() {
	configPath := flag.String("config", "", "YAML file with render params")
	logLevel := flag.String("log-level", envOr(config.EnvPrefix+"LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "write logs to this file instead of stderr")
	display := flag.String("display", "window", "display surface: window or term")
	file := flag.String("file", "", "MP3 file to play on start")
	url := flag.String("url", "", "YouTube URL to play on start")
	seed := flag.Uint64("seed", 0, "particle seed; 0 picks one from the clock")
	resolver := flag.String("resolver", envOr(config.EnvPrefix+"RESOLVER", config.DefaultResolverEndpoint), "stream info service endpoint")

	var overrides []override
	for _, name := range config.ParamNames {
		flag.Func(name, "render param "+name, func(v string) error {
			overrides = append(overrides, override{name, v})
			return nil
		})
	}
	flag.Parse()

	if err := setupLogging(*logLevel, *logFile, *display == "term"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	params, err := loadParams(*configPath, overrides)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"error":    err.Error(),
		}).Fatal("Invalid configuration")
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := status.New()
	session := audio.NewSession(audio.NewSpeakerPlayer())
	manager := audio.NewManager(session, st, stream.NewHTTPResolver(*resolver))
	defer manager.Close()

	l := loop.New(params, session.Analyser(), rand.New(rand.NewPCG(*seed, *seed)), config.WindowWidth, config.WindowHeight)

	logrus.WithFields(logrus.Fields{
		"function": "main",
		"display":  *display,
		"seed":     *seed,
		"count":    params.ParticleCount,
	}).Info("Starting visualizer")

	if *file != "" {
		_ = manager.LoadFile(*file)
	} else if *url != "" {
		manager.LoadStreamAsync(ctx, *url)
	}

	switch *display {
	case "window":
		err = runWindow(ctx, l, manager, st)
	case "term":
		err = runTerm(ctx, l, manager, st)
	default:
		err = fmt.Errorf("unknown display %q", *display)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"error":    err.Error(),
		}).Error("Visualizer stopped")
		manager.Close()
		os.Exit(1)
	}
}

// loadParams applies command-line overrides on top of the file and
// environment.
func loadParams(path string, overrides []override) (config.RenderParams, error) {
	p, err := config.Load(path, os.LookupEnv)
	if err != nil {
		return p, err
	}
	for _, o := range overrides {
		if err := p.Set(o.name, o.value); err != nil {
			return p, fmt.Errorf("flag -%s: %w", o.name, err)
		}
	}
	return p, p.Validate()
}

// setupLogging keeps stderr clear when the terminal is the display.
func setupLogging(level, path string, quiet bool) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)

	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		logrus.SetOutput(f)
	case quiet:
		logrus.SetOutput(io.Discard)
	}
	return nil
}

func runWindow(ctx context.Context, l *loop.Loop, m *audio.Manager, st *status.Channel) error {
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Audio Particles - O: open file, U: YouTube URL, Space: play/pause, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(game.TPS)

	g := game.NewGame(ctx, l, m, st, game.NewDialogs())
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func runTerm(ctx context.Context, l *loop.Loop, m *audio.Manager, st *status.Channel) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	return term.New(screen, l, m, st).Run(ctx)
}

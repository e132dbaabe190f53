// Package game puts the render loop in an ebiten window: particles are
// drawn as additive soft dots, with the source buttons and status line on
// top.
package game

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/audio-particles/internal/audio"
	"github.com/iburimskiy/audio-particles/internal/config"
	"github.com/iburimskiy/audio-particles/internal/loop"
	"github.com/iburimskiy/audio-particles/internal/status"
)

// TPS is the ebiten update rate the fixed clock assumes.
const TPS = 60

var background = color.RGBA{R: 0x05, G: 0x06, B: 0x0a, A: 0xff}

type Game struct {
	ctx     context.Context
	loop    *loop.Loop
	clock   loop.Clock
	manager *audio.Manager
	status  *status.Channel
	dialogs Dialogs

	openButton *button
	urlButton  *button
	progress   progressBar

	sprites []loop.Sprite
	dot     *ebiten.Image

	// input edge detection
	prevKey map[ebiten.Key]bool

	dialogOpen atomic.Bool
	width      int
	height     int
}

func NewGame(ctx context.Context, l *loop.Loop, m *audio.Manager, st *status.Channel, d Dialogs) *Game {
	return &Game{
		ctx:        ctx,
		loop:       l,
		clock:      loop.NewFixedClock(TPS),
		manager:    m,
		status:     st,
		dialogs:    d,
		openButton: newButton("Open File", config.ButtonX, config.ButtonY),
		urlButton:  newButton("Load URL", config.ButtonX+config.ButtonWidth+config.ButtonGap, config.ButtonY),
		prevKey:    map[ebiten.Key]bool{},
		width:      config.WindowWidth,
		height:     config.WindowHeight,
	}
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	g.urlButton.disabled = g.manager.Busy()

	mouseX, mouseY := ebiten.CursorPosition()
	if g.openButton.update(mouseX, mouseY) {
		g.openFile()
	}
	if g.urlButton.update(mouseX, mouseY) {
		g.openURL()
	}
	g.updateProgress(mouseX, mouseY,
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		time.Now())

	if justPressed(ebiten.KeyO) {
		g.openFile()
	}
	if justPressed(ebiten.KeyU) && !g.urlButton.disabled {
		g.openURL()
	}
	if justPressed(ebiten.KeySpace) {
		g.manager.TogglePause()
	}
	if justPressed(ebiten.KeyRightBracket) {
		g.loop.AdjustParticleCount(config.ParticleCountStep)
	}
	if justPressed(ebiten.KeyLeftBracket) {
		g.loop.AdjustParticleCount(-config.ParticleCountStep)
	}
	if justPressed(ebiten.KeyEqual) {
		loop.Scale(&g.loop.Params.Speed, 1.1)
	}
	if justPressed(ebiten.KeyMinus) {
		loop.Scale(&g.loop.Params.Speed, 1/1.1)
	}
	if justPressed(ebiten.KeyPeriod) {
		loop.Scale(&g.loop.Params.AudioSensitivity, 1.1)
	}
	if justPressed(ebiten.KeyComma) {
		loop.Scale(&g.loop.Params.AudioSensitivity, 1/1.1)
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	g.loop.SetPixelRatio(ebiten.Monitor().DeviceScaleFactor())
	g.manager.Poll()
	g.loop.Tick(g.clock)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	g.drawParticles(screen)

	g.openButton.draw(screen)
	g.urlButton.draw(screen)

	ebitenutil.DebugPrintAt(screen, g.status.Message(), 12, 12)
	g.drawHUD(screen)
}

// Layout follows the window so the surface always fills it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.loop.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// updateProgress drives the scrub bar from the current source's position.
func (g *Game) updateProgress(mouseX, mouseY int, justPressed, justReleased bool, now time.Time) {
	g.progress.layout(g.width, g.height)

	pos, total, ok := g.manager.Session().Progress()
	progress := 0.0
	if total > 0 {
		progress = float64(pos) / float64(total)
	}
	if f, seek := g.progress.update(mouseX, mouseY, justPressed, justReleased, progress, ok && total > 0, now); seek {
		g.manager.Seek(f)
	}
}

// openFile shows the file dialog on its own goroutine and loads the
// choice. It reports whether a dialog was started.
func (g *Game) openFile() bool {
	if !g.dialogOpen.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		defer g.dialogOpen.Store(false)

		path, err := g.dialogs.SelectFile()
		if err != nil {
			g.dialogFailed("SelectFile", err)
			return
		}
		_ = g.manager.LoadFile(path)
	}()
	return true
}

// openURL asks for a link and starts a background stream load.
func (g *Game) openURL() bool {
	if g.manager.Busy() || !g.dialogOpen.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		defer g.dialogOpen.Store(false)

		url, err := g.dialogs.EnterURL()
		if err != nil {
			g.dialogFailed("EnterURL", err)
			return
		}
		if !g.manager.LoadStreamAsync(g.ctx, url) {
			logrus.WithFields(logrus.Fields{
				"function": "openURL",
			}).Debug("Stream load already running")
		}
	}()
	return true
}

func (g *Game) dialogFailed(name string, err error) {
	if errors.Is(err, zenity.ErrCanceled) {
		return
	}
	logrus.WithFields(logrus.Fields{
		"function": name,
		"error":    err.Error(),
	}).Error("Dialog failed")
	g.status.Fail(fmt.Errorf("dialog: %w", err))
}

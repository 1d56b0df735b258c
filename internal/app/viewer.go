// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/relabs-tech/arenafit/internal/align"
	"github.com/relabs-tech/arenafit/internal/calibration"
	"github.com/relabs-tech/arenafit/internal/config"
	"github.com/relabs-tech/arenafit/internal/geom"
	"github.com/relabs-tech/arenafit/internal/scene"
)

// Callbacks is the table a display driver invokes, all on one goroutine.
// Per frame the order is KeyRelease*, Tick, Draw; Resize whenever the
// surface size changes.
type Callbacks struct {
	KeyRelease func(calibration.Key)
	Resize     func(width, height int) error
	Tick       func() error
	Draw       func(screen *ebiten.Image)
}

// RunViewer opens the projector window and runs the alignment loop until
// the window is closed.
func RunViewer(screenIndex int) error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDViewer)
	if err != nil {
		if cfg.PoseSource == "mqtt" {
			return err
		}
		log.Printf("viewer: running without MQTT: %v", err)
		client = nil
	} else {
		log.Printf("viewer: connected to MQTT broker at %s", cfg.MQTTBroker)
		defer client.Disconnect(250)
	}

	session, err := newSession(cfg, client)
	if err != nil {
		return err
	}

	remote := make(chan calibration.Key, 64)
	var status *statusPublisher
	if client != nil {
		err := subscribeKeys(client, cfg.TopicKeys, func(k calibration.Key) {
			select {
			case remote <- k:
			default:
				log.Printf("viewer: dropping remote key %s, queue full", k)
			}
		})
		if err != nil {
			return err
		}
		status = &statusPublisher{
			client:   client,
			topic:    cfg.TopicStatus,
			interval: time.Duration(cfg.StatusPublishInterval) * time.Millisecond,
		}
	}

	g := newViewerGame(session, remote, status)

	ebiten.SetWindowTitle("arenafit")
	ebiten.SetTPS(cfg.TickRate)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	monitors := ebiten.AppendMonitors(nil)
	if screenIndex >= 0 && screenIndex < len(monitors) {
		ebiten.SetMonitor(monitors[screenIndex])
	} else {
		log.Printf("viewer: screen %d not available (%d screens), using primary", screenIndex, len(monitors))
	}
	ebiten.SetFullscreen(cfg.Fullscreen)

	log.Println("viewer: starting render loop")
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	log.Println("viewer: window closed")
	return nil
}

type viewerGame struct {
	cb     Callbacks
	remote <-chan calibration.Key
	status *statusPublisher
	snap   func() align.Snapshot

	sc   *scene.Scene
	face text.Face

	width, height        int
	rejectedW, rejectedH int
}

func newViewerGame(s *align.Session, remote <-chan calibration.Key, status *statusPublisher) *viewerGame {
	g := &viewerGame{
		remote: remote,
		status: status,
		snap:   s.Snapshot,
		sc:     s.Scene,
		face:   text.NewGoXFace(basicfont.Face7x13),
	}
	g.cb = Callbacks{
		KeyRelease: s.KeyRelease,
		Resize:     s.Resize,
		Tick:       s.Tick,
		Draw:       g.drawScene,
	}
	return g
}

var arrowKeys = []struct {
	key ebiten.Key
	k   calibration.Key
}{
	{ebiten.KeyArrowLeft, calibration.KeyLeft},
	{ebiten.KeyArrowRight, calibration.KeyRight},
	{ebiten.KeyArrowUp, calibration.KeyUp},
	{ebiten.KeyArrowDown, calibration.KeyDown},
}

func (g *viewerGame) Update() error {
	if inpututil.IsKeyJustReleased(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for _, a := range arrowKeys {
		if inpututil.IsKeyJustReleased(a.key) {
			g.cb.KeyRelease(a.k)
		}
	}
	g.drainRemote()

	// Tick errors are handled inside the loop; the frame draws the last
	// good pose.
	_ = g.cb.Tick()

	g.status.maybePublish(g.snap())
	return nil
}

func (g *viewerGame) drainRemote() {
	for {
		select {
		case k := <-g.remote:
			g.cb.KeyRelease(k)
		default:
			return
		}
	}
}

func (g *viewerGame) Draw(screen *ebiten.Image) {
	g.cb.Draw(screen)
}

func (g *viewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	changed := outsideWidth != g.width || outsideHeight != g.height
	retry := outsideWidth != g.rejectedW || outsideHeight != g.rejectedH
	if changed && retry {
		if err := g.cb.Resize(outsideWidth, outsideHeight); err != nil {
			// Layout runs every frame; report a rejected size once.
			log.Printf("viewer: ignoring resize: %v", err)
			g.rejectedW, g.rejectedH = outsideWidth, outsideHeight
		} else {
			g.width, g.height = outsideWidth, outsideHeight
			g.rejectedW, g.rejectedH = 0, 0
		}
	}
	w, h := g.width, g.height
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	return w, h
}

var (
	arenaColor  = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
	markerColor = color.RGBA{0xff, 0x40, 0x40, 0xff}
)

func (g *viewerGame) drawScene(screen *ebiten.Image) {
	bg := g.sc.Background
	screen.Fill(color.RGBA{uint8(bg[0] * 255), uint8(bg[1] * 255), uint8(bg[2] * 255), 0xff})

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	g.drawOutline(screen, g.sc.Arena, w, h, arenaColor)
	g.drawOutline(screen, g.sc.Marker, w, h, markerColor)

	if x, y, ok := g.sc.Camera.Project(g.sc.Marker.World().Translation(), w, h); ok {
		vector.DrawFilledCircle(screen, float32(x), float32(y), 3, markerColor, true)
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, g.snap().Label(), g.face, op)
}

func (g *viewerGame) drawOutline(screen *ebiten.Image, m *scene.Mesh, w, h int, clr color.Color) {
	pts := scene.Outline(m)
	n := len(pts)
	if !m.Closed {
		n--
	}
	for i := 0; i < n; i++ {
		g.segment(screen, pts[i], pts[(i+1)%len(pts)], w, h, clr)
	}
}

// segment skips lines with an end behind the projector.
func (g *viewerGame) segment(screen *ebiten.Image, a, b geom.Vec3, w, h int, clr color.Color) {
	x0, y0, ok0 := g.sc.Camera.Project(a, w, h)
	x1, y1, ok1 := g.sc.Camera.Project(b, w, h)
	if !ok0 || !ok1 {
		return
	}
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, clr, true)
}

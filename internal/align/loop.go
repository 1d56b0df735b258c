// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package align

import (
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/relabs-tech/arenafit/internal/calibration"
	"github.com/relabs-tech/arenafit/internal/geom"
	"github.com/relabs-tech/arenafit/internal/pose"
	"github.com/relabs-tech/arenafit/internal/scene"
)

// Outcome is the result of the most recent tick.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeOK
	OutcomeStale
	OutcomeLost
	OutcomeInvalid
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeStale:
		return "stale"
	case OutcomeLost:
		return "lost"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "none"
	}
}

// Loop moves the arena node to the tracked rigid body once per tick.
type Loop struct {
	Source pose.Source
	Body   string
	State  *calibration.State
	Arena  *scene.Node
	Marker *scene.Node

	// StaleAfter flags samples older than this as stale. Zero disables
	// the age check.
	StaleAfter time.Duration

	now func() time.Time

	cached     pose.Sample
	haveCached bool

	outcome Outcome
	ticks   uint64
	lastErr error

	invalidLog rate.Sometimes
}

// NewLoop wires a loop for the named rigid body.
func NewLoop(src pose.Source, body string, state *calibration.State, arena, marker *scene.Node) *Loop {
	return &Loop{
		Source:     src,
		Body:       body,
		State:      state,
		Arena:      arena,
		Marker:     marker,
		now:        time.Now,
		invalidLog: rate.Sometimes{Interval: time.Second},
	}
}

// Tick runs one alignment step. A returned error is informational: on
// any error the arena and marker keep the transform of the last good tick.
func (l *Loop) Tick() error {
	l.ticks++

	sample, stale, err := l.fetch()
	if err != nil {
		l.setOutcome(OutcomeLost, err)
		return err
	}

	if !sample.Position.IsFinite() || !sample.Rotation.IsFinite() || sample.Rotation.Len() < 1e-9 {
		err := fmt.Errorf("%w: body %s position=%v rotation=%v", ErrInvalidPose, l.Body, sample.Position, sample.Rotation)
		l.invalidLog.Do(func() {
			log.Printf("align: dropping sample: %v", err)
		})
		l.setOutcome(OutcomeInvalid, err)
		return err
	}

	if err := l.apply(sample); err != nil {
		l.setOutcome(OutcomeInvalid, err)
		return err
	}

	l.cached = sample
	l.haveCached = true

	if !stale && l.StaleAfter > 0 && !sample.Time.IsZero() && l.now().Sub(sample.Time) > l.StaleAfter {
		stale = true
	}
	if stale {
		l.setOutcome(OutcomeStale, nil)
	} else {
		l.setOutcome(OutcomeOK, nil)
	}
	return nil
}

func (l *Loop) fetch() (pose.Sample, bool, error) {
	sample, err := l.Source.RigidBody(l.Body)
	switch {
	case err == nil:
		return sample, false, nil
	case errors.Is(err, pose.ErrWouldBlock):
		if !l.haveCached {
			return pose.Sample{}, false, fmt.Errorf("%w: %s: no pose yet", ErrTrackingLost, l.Body)
		}
		return l.cached, true, nil
	default:
		return pose.Sample{}, false, fmt.Errorf("%w: %s: %v", ErrTrackingLost, l.Body, err)
	}
}

// apply writes the raw pose, then re-derives the rotation with the yaw
// offset added. The raw orientation must be written first; the Euler
// conversion happens once per tick from that raw value.
func (l *Loop) apply(s pose.Sample) error {
	prevPos, prevRot := l.Arena.Position(), l.Arena.Rotation()
	restore := func() {
		_ = l.Arena.SetPosition(prevPos)
		_ = l.Arena.SetRotation(prevRot)
	}

	if err := l.Arena.SetPosition(s.Position); err != nil {
		return err
	}
	if err := l.Arena.SetRotation(s.Rotation); err != nil {
		restore()
		return err
	}

	e := l.Arena.Euler()
	e.Yaw += l.State.YawOffset
	if err := l.Arena.SetRotation(geom.FromEuler(e)); err != nil {
		restore()
		return err
	}
	l.Arena.Update()

	if l.Marker != nil {
		if err := l.Marker.SetPosition(s.Position); err != nil {
			return err
		}
		l.Marker.Update()
	}
	return nil
}

func (l *Loop) setOutcome(o Outcome, err error) {
	prev := l.outcome
	l.outcome = o
	l.lastErr = err

	if o == prev {
		return
	}
	switch o {
	case OutcomeLost:
		log.Printf("align: tracking lost for %s, holding last pose: %v", l.Body, err)
	case OutcomeStale:
		log.Printf("align: pose for %s is stale", l.Body)
	case OutcomeOK:
		if prev != OutcomeNone {
			log.Printf("align: tracking of %s recovered", l.Body)
		}
	}
}

// Outcome returns the result of the last tick.
func (l *Loop) Outcome() Outcome { return l.outcome }

// Ticks returns the number of ticks run so far.
func (l *Loop) Ticks() uint64 { return l.ticks }

// Err returns the error of the last tick, if any.
func (l *Loop) Err() error { return l.lastErr }

// LastSample returns the last pose that was applied.
func (l *Loop) LastSample() (pose.Sample, bool) { return l.cached, l.haveCached }

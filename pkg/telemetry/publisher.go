// Package telemetry periodically samples all joint angles and broadcasts
// them to subscribers.
package telemetry

import (
	"sync"
	"time"

	"github.com/robonomics/go-mybuddy/internal/log"
	"github.com/robonomics/go-mybuddy/pkg/mybuddy"
	"github.com/robonomics/go-mybuddy/pkg/protocol"
)

// Broadcaster is where samples go. Satisfied by *hub.Hub.
type Broadcaster interface {
	BroadcastJSON(v any) error
}

// Publisher reads all joint groups on a fixed period and emits one
// combined AnglesMessage per tick. A failed or short read suppresses
// that tick's publish; the next tick is unaffected.
type Publisher struct {
	link   mybuddy.Link
	sink   Broadcaster
	period time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewPublisher creates a publisher. Typical period is 500ms (2 Hz).
func NewPublisher(link mybuddy.Link, sink Broadcaster, period time.Duration) *Publisher {
	return &Publisher{
		link:   link,
		sink:   sink,
		period: period,
		stop:   make(chan struct{}),
	}
}

// Run starts the telemetry loop. Blocks until Stop is called.
func (p *Publisher) Run() {
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()

	log.Info("telemetry started", "period", p.period)
	for {
		select {
		case <-p.stop:
			log.Info("telemetry stopped")
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

// Stop halts the telemetry loop. Idempotent.
func (p *Publisher) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// tick reads every group once and broadcasts the combined message.
// Three wire reads per tick: left arm, right arm, waist.
func (p *Publisher) tick() {
	left, ok := p.readArm(mybuddy.LeftArm)
	if !ok {
		return
	}
	right, ok := p.readArm(mybuddy.RightArm)
	if !ok {
		return
	}
	waist, ok := p.readWaist()
	if !ok {
		return
	}

	msg := protocol.AnglesMessage{LeftArm: left, RightArm: right, Waist: waist}
	if err := p.sink.BroadcastJSON(msg); err != nil {
		log.Error("telemetry encode failed", "error", err)
	}
}

// readArm samples a six-joint arm. Returns ok=false when the read fails
// or the controller returns the wrong number of angles.
func (p *Publisher) readArm(group mybuddy.Group) (protocol.AngleSample, bool) {
	angles, err := p.link.GetAngles(group)
	if err != nil {
		log.Warn("telemetry read failed", "group", group.String(), "error", err)
		return protocol.AngleSample{}, false
	}
	if len(angles) != group.JointCount() {
		log.Warn("telemetry read malformed", "group", group.String(), "got", len(angles), "want", group.JointCount())
		return protocol.AngleSample{}, false
	}
	return protocol.NewAngleSample(group, angles), true
}

// readWaist samples the single waist joint.
func (p *Publisher) readWaist() (protocol.AngleSample, bool) {
	angle, err := p.link.GetAngle(mybuddy.Waist, 1)
	if err != nil {
		log.Warn("telemetry read failed", "group", mybuddy.Waist.String(), "error", err)
		return protocol.AngleSample{}, false
	}
	return protocol.NewAngleSample(mybuddy.Waist, []float64{angle}), true
}

package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robonomics/go-mybuddy/pkg/mybuddy"
	"github.com/robonomics/go-mybuddy/pkg/protocol"
)

// fakeLink returns canned angles and can be told to fail per group.
type fakeLink struct {
	arms       map[mybuddy.Group][]float64
	waist      float64
	armErr     map[mybuddy.Group]error
	waistErr   error
	armReads   int
	waistReads int
}

func newFakeLink() *fakeLink {
	return &fakeLink{
		arms: map[mybuddy.Group][]float64{
			mybuddy.LeftArm:  {1, 2, 3, 4, 5, 6},
			mybuddy.RightArm: {-1, -2, -3, -4, -5, -6},
		},
		waist:  42.5,
		armErr: map[mybuddy.Group]error{},
	}
}

func (f *fakeLink) GetAngles(group mybuddy.Group) ([]float64, error) {
	f.armReads++
	if err := f.armErr[group]; err != nil {
		return nil, err
	}
	return f.arms[group], nil
}

func (f *fakeLink) GetAngle(group mybuddy.Group, joint int) (float64, error) {
	f.waistReads++
	if f.waistErr != nil {
		return 0, f.waistErr
	}
	return f.waist, nil
}

func (f *fakeLink) SendAngle(group mybuddy.Group, joint int, angle float64, speed int) error {
	return nil
}

// captureSink records broadcast messages.
type captureSink struct {
	messages []protocol.AnglesMessage
}

func (c *captureSink) BroadcastJSON(v any) error {
	c.messages = append(c.messages, v.(protocol.AnglesMessage))
	return nil
}

func TestTick_PublishesAllGroups(t *testing.T) {
	link := newFakeLink()
	sink := &captureSink{}
	p := NewPublisher(link, sink, 500*time.Millisecond)

	p.tick()

	require.Len(t, sink.messages, 1)
	msg := sink.messages[0]

	assert.Len(t, msg.LeftArm.Positions, 6)
	assert.Len(t, msg.RightArm.Positions, 6)
	assert.Len(t, msg.Waist.Positions, 1)

	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, msg.LeftArm.Positions)
	assert.Equal(t, []string{"LJ1", "LJ2", "LJ3", "LJ4", "LJ5", "LJ6"}, msg.LeftArm.Names)
	assert.Equal(t, 42.5, msg.Waist.Positions[0])
	assert.Equal(t, []string{"W"}, msg.Waist.Names)

	assert.Empty(t, msg.LeftArm.Velocities, "hardware reports no velocity")
	assert.Empty(t, msg.LeftArm.Efforts, "hardware reports no effort")
	assert.False(t, msg.Waist.Stamp.IsZero())

	// Three wire reads per tick: two arms, one waist.
	assert.Equal(t, 2, link.armReads)
	assert.Equal(t, 1, link.waistReads)
}

func TestTick_ReadErrorSuppressesPublish(t *testing.T) {
	link := newFakeLink()
	link.armErr[mybuddy.RightArm] = errors.New("serial timeout")
	sink := &captureSink{}
	p := NewPublisher(link, sink, 500*time.Millisecond)

	p.tick()

	assert.Empty(t, sink.messages, "a failed read must skip the whole tick")
}

func TestTick_WrongLengthSuppressesPublish(t *testing.T) {
	link := newFakeLink()
	link.arms[mybuddy.LeftArm] = []float64{1, 2, 3} // short read
	sink := &captureSink{}
	p := NewPublisher(link, sink, 500*time.Millisecond)

	p.tick()

	assert.Empty(t, sink.messages)
}

func TestTick_RecoversOnNextTick(t *testing.T) {
	link := newFakeLink()
	link.waistErr = errors.New("bad frame")
	sink := &captureSink{}
	p := NewPublisher(link, sink, 500*time.Millisecond)

	p.tick()
	require.Empty(t, sink.messages)

	link.waistErr = nil
	p.tick()
	assert.Len(t, sink.messages, 1, "a bad tick must not poison the next one")
}

func TestRunStop(t *testing.T) {
	link := newFakeLink()
	sink := &captureSink{}
	p := NewPublisher(link, sink, time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Run()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	p.Stop()
	p.Stop() // idempotent

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop")
	}
}

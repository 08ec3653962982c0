package compositor

import (
	"fmt"

	"github.com/xpra-org/wlheadless/util/multiplexer"
)

// FrameStream fans out readback frames to any number of named subscribers,
// letting several independent consumers (e.g. multiple remote viewers)
// watch the same compositor without each wiring its own Bus.On callback
// and racing to drain it.
type FrameStream struct {
	plexer multiplexer.OneToMany[SurfaceImageEvent]
	sender multiplexer.ManyToOne[SurfaceImageEvent]
}

func newFrameStream() *FrameStream {
	plexer := multiplexer.NewOneToMany[SurfaceImageEvent]()
	fs := &FrameStream{
		plexer: plexer,
		sender: multiplexer.NewManyToOne(plexer.GetSender()),
	}
	go fs.plexer.StartPlexer()
	return fs
}

// Subscribe creates a new named receiver. Names must be unique among
// currently active subscribers.
func (fs *FrameStream) Subscribe(name string) (<-chan SurfaceImageEvent, error) {
	ch, err := fs.plexer.MakeReceiver(name)
	if err != nil {
		return nil, fmt.Errorf("subscribing to frame stream: %w", err)
	}
	return ch, nil
}

// Unsubscribe closes and removes a named receiver.
func (fs *FrameStream) Unsubscribe(name string) {
	fs.plexer.CloseReceiver(name)
}

func (fs *FrameStream) publish(ev SurfaceImageEvent) {
	_ = fs.sender.Send(ev)
}

// Close shuts the stream down, closing every active subscriber channel.
func (fs *FrameStream) Close() {
	fs.plexer.CloseSender()
}

// Stream returns the compositor's frame-fanout stream, lazily starting its
// distribution goroutine on first use.
func (c *Compositor) Stream() *FrameStream {
	if c.stream == nil {
		c.stream = newFrameStream()
		c.Bus.On(EventSurfaceImage, func(args ...any) {
			c.stream.publish(args[0].(SurfaceImageEvent))
		})
	}
	return c.stream
}

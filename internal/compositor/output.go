package compositor

import (
	"time"

	"github.com/swaywm/go-wlroots/wlroots"
)

// outputRecord tracks one headless output, created on new_output and freed
// when the native output is destroyed.
type outputRecord struct {
	native      wlroots.Output
	sceneOutput wlroots.SceneOutput
	alive       bool
}

func (c *Compositor) handleNewOutput(native wlroots.Output) {
	native.InitRender(c.allocator, c.renderer)

	rec := &outputRecord{native: native, alive: true}
	c.outputs[native] = rec

	state := wlroots.NewOutputState()
	state.StateInit()
	state.StateSetEnabled(true)
	native.CommitState(state)
	state.Finish()

	native.OnFrame(func(o wlroots.Output) { c.handleOutputFrame(rec) })
	native.OnDestroy(func(o wlroots.Output) { c.handleOutputDestroy(rec) })

	layoutOutput := c.outputLayout.AddOutputAuto(native)
	rec.sceneOutput = c.scene.NewOutput(native)
	c.sceneLayout.AddOutput(layoutOutput, rec.sceneOutput)
}

func (c *Compositor) handleOutputFrame(rec *outputRecord) {
	if !rec.alive {
		return
	}
	// The only driver of scene commits: no frame is forced by user input.
	// The library's own pacing (frame callbacks) determines cadence; we
	// simply commit and let it reschedule us. SendFrameDone must follow
	// every commit, not just ones AcknowledgeSurface is asked for: a
	// client that waits on its wl_surface.frame callback before queuing
	// its next buffer never gets a second frame otherwise.
	rec.sceneOutput.Commit()
	rec.sceneOutput.SendFrameDone(time.Now())
}

func (c *Compositor) handleOutputDestroy(rec *outputRecord) {
	if !rec.alive {
		return
	}
	rec.alive = false
	delete(c.outputs, rec.native)
}

// Outputs returns every currently live native output handle, for
// introspection tools that want to list names/modes directly.
func (c *Compositor) Outputs() []wlroots.Output {
	out := make([]wlroots.Output, 0, len(c.outputs))
	for native, rec := range c.outputs {
		if rec.alive {
			out = append(out, native)
		}
	}
	return out
}

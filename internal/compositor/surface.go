package compositor

import (
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"

	"github.com/xpra-org/wlheadless/internal/wlr"
)

// surfaceRecord is the per-surface bookkeeping the registry owns. Each
// record is a stable Go value the registered closures close over directly:
// the map/unmap/destroy/commit handlers check rec.alive before doing anything, the
// Go-idiomatic equivalent of "unlink only if currently linked," and the
// record's `hasToplevel` flag tracks whether native.TopLevel() is safe to
// call at all: only role-Toplevel surfaces carry a toplevel union member,
// so a role-None surface is tracked as a bare surface with no title/app_id.
type surfaceRecord struct {
	wid    uint64
	native wlroots.XDGSurface

	hasToplevel bool
	configured  bool
	mapped      bool

	width, height int

	alive bool
}

func (c *Compositor) handleNewXDGSurface(native wlroots.XDGSurface) {
	// Popups are not rendered as separate windows. Role-None surfaces (not
	// yet given a role by the client) are still tracked so they appear in
	// the scene graph, but only a role-Toplevel surface's TopLevel() union
	// member is ever touched.
	if native.Role() == wlr.XDGSurfaceRolePopup {
		return
	}

	c.nextWID++
	rec := &surfaceRecord{
		wid:    c.nextWID,
		native: native,
		alive:  true,
	}
	c.surfaces[rec.wid] = rec

	native.SetData(c.scene.Tree().NewXDGSurface(native))

	native.OnMap(func(s wlroots.XDGSurface) { c.handleSurfaceMap(rec) })
	native.OnUnmap(func(s wlroots.XDGSurface) { c.handleSurfaceUnmap(rec) })
	native.OnDestroy(func(s wlroots.XDGSurface) { c.handleSurfaceDestroy(rec) })
	native.OnCommit(func(s wlroots.XDGSurface) { c.handleSurfaceCommit(rec) })

	var title, appID string
	if native.Role() == wlr.XDGSurfaceRoleTopLevel {
		top := native.TopLevel()
		rec.hasToplevel = true
		title = top.Title()
		appID = top.AppID()

		top.OnRequestMove(func(client wlr.SeatClient, serial uint32) {
			c.Bus.Emit(EventMove, MoveEvent{WID: rec.wid, Serial: serial})
		})
		top.OnRequestResize(func(client wlr.SeatClient, serial uint32, edges wlr.Edges) {
			// Resize edges are logged, not forwarded: the embedding
			// host decides geometry, not the compositor core.
			logrus.WithFields(logrus.Fields{"wid": rec.wid, "edges": edges}).Debugln("request_resize")
			c.Bus.Emit(EventResize, ResizeEvent{WID: rec.wid, Serial: serial})
		})
		top.OnRequestMaximize(func(wlroots.XDGTopLevel) {
			c.Bus.Emit(EventMaximize, MaximizeEvent{WID: rec.wid})
		})
		top.OnRequestFullscreen(func(wlroots.XDGTopLevel) {
			c.Bus.Emit(EventFullscreen, FullscreenEvent{WID: rec.wid})
		})
		top.OnRequestMinimize(func(wlroots.XDGTopLevel) {
			c.Bus.Emit(EventMinimize, MinimizeEvent{WID: rec.wid})
		})
		top.OnSetTitle(func(newTitle string) {
			logrus.WithFields(logrus.Fields{"wid": rec.wid, "title": newTitle}).Debugln("set_title")
			c.Bus.Emit(EventSetTitle, SetTitleEvent{WID: rec.wid, Title: newTitle})
		})
		top.OnSetAppID(func(newAppID string) {
			logrus.WithFields(logrus.Fields{"wid": rec.wid, "app_id": newAppID}).Debugln("set_app_id")
			c.Bus.Emit(EventSetAppID, SetAppIDEvent{WID: rec.wid, AppID: newAppID})
		})
	}

	geom := native.Geometry()
	rec.width, rec.height = geom.Width, geom.Height

	c.Bus.Emit(EventNewSurface, NewSurfaceEvent{
		Native:   native.Pointer(),
		WID:      rec.wid,
		Title:    title,
		AppID:    appID,
		Geometry: Size{W: geom.Width, H: geom.Height},
	})
}

func (c *Compositor) handleSurfaceMap(rec *surfaceRecord) {
	if !rec.alive {
		return
	}
	rec.mapped = true
	title, appID := "", ""
	if rec.hasToplevel {
		top := rec.native.TopLevel()
		title = top.Title()
		appID = top.AppID()
	}
	geom := rec.native.Geometry()
	rec.width, rec.height = geom.Width, geom.Height
	c.Bus.Emit(EventMap, MapEvent{WID: rec.wid, Title: title, AppID: appID, Geometry: Size{W: geom.Width, H: geom.Height}})
}

func (c *Compositor) handleSurfaceUnmap(rec *surfaceRecord) {
	if !rec.alive {
		return
	}
	rec.mapped = false
	c.Bus.Emit(EventUnmap, UnmapEvent{WID: rec.wid})
}

func (c *Compositor) handleSurfaceDestroy(rec *surfaceRecord) {
	if !rec.alive {
		return
	}
	rec.alive = false
	delete(c.surfaces, rec.wid)
	c.Bus.Emit(EventDestroy, DestroyEvent{WID: rec.wid})
}

func (c *Compositor) handleSurfaceCommit(rec *surfaceRecord) {
	if !rec.alive {
		return
	}

	if rec.hasToplevel {
		top := rec.native.TopLevel()
		if top.Base().Initialized() && !rec.configured {
			top.Base().TopLevelSetSize(defaultToplevelWidth, defaultToplevelHeight)
			rec.configured = true
		}
	}

	rects := damageRects(rec.native.Surface())

	c.Bus.Emit(EventCommit, CommitEvent{WID: rec.wid, Mapped: rec.mapped, Rects: rects})

	if rec.mapped {
		if img, ok := c.readbackSurface(rec.wid, rec.native); ok {
			c.Bus.Emit(EventSurfaceImage, SurfaceImageEvent{WID: rec.wid, Image: img})
		}
	}
}

// OnSurfaceImage is a convenience single-sink subscription for the common
// case of wanting just the pixel callback. It is sugar over Bus.On, nothing
// more: embedders are free to use Bus.On(EventSurfaceImage, ...) directly.
func (c *Compositor) OnSurfaceImage(fn func(wid uint64, img Image)) {
	c.Bus.On(EventSurfaceImage, func(args ...any) {
		ev := args[0].(SurfaceImageEvent)
		fn(ev.WID, ev.Image)
	})
}

// Resize drives a toplevel size configure.
func (c *Compositor) Resize(wid uint64, width, height int) error {
	rec, ok := c.surfaces[wid]
	if !ok {
		return errUnknownWID(wid)
	}
	if !rec.hasToplevel {
		return errNotToplevel(wid)
	}
	top := rec.native.TopLevel()
	top.Base().TopLevelSetSize(uint32(width), uint32(height))
	return nil
}

// Focus sets a toplevel's activated state.
func (c *Compositor) Focus(wid uint64, focused bool) error {
	rec, ok := c.surfaces[wid]
	if !ok {
		return errUnknownWID(wid)
	}
	if !rec.hasToplevel {
		return errNotToplevel(wid)
	}
	top := rec.native.TopLevel()
	top.SetActivated(focused)
	if focused {
		c.seat.NotifyKeyboardEnter(rec.native.Surface(), c.seat.Keyboard())
	} else if c.seat.KeyboardState().FocusedSurface() == rec.native.Surface() {
		c.seat.ClearKeyboardFocus()
	}
	return nil
}

// WindowSnapshot is a point-in-time view of one tracked surface, used by
// the REPL and IPC introspection paths to list live windows without
// exposing native handles.
type WindowSnapshot struct {
	WID    uint64
	Title  string
	AppID  string
	Mapped bool
	Width  int
	Height int
}

// Windows returns a snapshot of every currently live surface, in no
// particular order.
func (c *Compositor) Windows() []WindowSnapshot {
	out := make([]WindowSnapshot, 0, len(c.surfaces))
	for wid, rec := range c.surfaces {
		title, appID := "", ""
		if rec.hasToplevel {
			top := rec.native.TopLevel()
			title = top.Title()
			appID = top.AppID()
		}
		out = append(out, WindowSnapshot{
			WID:    wid,
			Title:  title,
			AppID:  appID,
			Mapped: rec.mapped,
			Width:  rec.width,
			Height: rec.height,
		})
	}
	return out
}

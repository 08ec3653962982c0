package compositor

// Event names, kept as plain strings at the public API boundary for
// embedder ergonomics. Internally, every event is a concrete tagged struct
// so compositor code never builds one by hand-assembling a loose []any.
const (
	EventNewSurface    = "new-surface"
	EventMap           = "map"
	EventUnmap         = "unmap"
	EventDestroy       = "destroy"
	EventCommit        = "commit"
	EventSurfaceImage  = "surface-image"
	EventMove          = "move"
	EventResize        = "resize"
	EventMaximize      = "maximize"
	EventFullscreen    = "fullscreen"
	EventMinimize      = "minimize"
	EventSSD           = "ssd"
	EventSetTitle      = "set-title"
	EventSetAppID      = "set-app-id"
)

// Size is a (width, height) pair in pixels.
type Size struct {
	W, H int
}

// DamageRect is one surface-local damage rectangle, width and height always
// at least 1.
type DamageRect struct {
	X, Y, W, H int
}

// Image is an owned BGRA pixel buffer, transferred to the listener that
// receives it; the core keeps no reference after emitting it.
type Image struct {
	Width, Height, Stride int
	BitsPerPixel          int
	Bytes                 []byte
}

// NewSurfaceEvent is emitted once per tracked XDG surface, before any other
// event for its wid.
type NewSurfaceEvent struct {
	Native  uintptr
	WID     uint64
	Title   string
	AppID   string
	Geometry Size
}

// MapEvent is emitted when a surface becomes ready to display.
type MapEvent struct {
	WID      uint64
	Title    string
	AppID    string
	Geometry Size
}

// UnmapEvent is emitted when a surface should no longer be shown.
type UnmapEvent struct{ WID uint64 }

// DestroyEvent is terminal: no further events for WID follow it.
type DestroyEvent struct{ WID uint64 }

// CommitEvent always carries the damage accumulated since the previous
// commit, whether or not the surface is currently mapped.
type CommitEvent struct {
	WID    uint64
	Mapped bool
	Rects  []DamageRect
}

// SurfaceImageEvent carries one freshly read-back frame for WID.
type SurfaceImageEvent struct {
	WID   uint64
	Image Image
}

// MoveEvent / ResizeEvent forward the client's interactive move/resize
// request; resize edges are deliberately not included, since the embedding
// host decides geometry.
type MoveEvent struct {
	WID    uint64
	Serial uint32
}
type ResizeEvent struct {
	WID    uint64
	Serial uint32
}

// MaximizeEvent / FullscreenEvent / MinimizeEvent carry only the wid; the
// embedder decides how (or whether) to honor the request.
type MaximizeEvent struct{ WID uint64 }
type FullscreenEvent struct{ WID uint64 }
type MinimizeEvent struct{ WID uint64 }

// SSDEvent reports the client's requested decoration mode alongside the
// fact that the compositor always forces server-side decorations.
type SSDEvent struct {
	Toplevel           uintptr
	ClientRequestedSSD bool
}

// SetTitleEvent / SetAppIDEvent carry title/app_id changes on the bus,
// rather than being logged-only.
type SetTitleEvent struct {
	WID   uint64
	Title string
}
type SetAppIDEvent struct {
	WID   uint64
	AppID string
}

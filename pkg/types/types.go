package types

// Pointer event kinds sent by the extension.
const (
	PointerEnter = "enter"
	PointerLeave = "leave"
)

// PointerEvent is one pointer notification from the extension. Enter events
// carry the hovered link's resolved absolute URL, the pointer position in
// page-relative pixels, and the current viewport dimensions. Leave events
// carry only the kind.
type PointerEvent struct {
	Kind      string `json:"kind"`
	URL       string `json:"url,omitempty"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	ViewportW int    `json:"viewport_w,omitempty"`
	ViewportH int    `json:"viewport_h,omitempty"`
}

// Render command ops sent to the extension.
const (
	OpLoading = "loading"
	OpImage   = "image"
	OpError   = "error"
	OpHide    = "hide"
)

// RenderCommand is one instruction for the extension's preview container.
// X/Y are the computed top-left position in page-relative pixels. W/H are the
// dimensions the daemon used for positioning (intrinsic image size when known,
// the configured placeholder size otherwise); zero for loading/hide ops.
type RenderCommand struct {
	Op      string `json:"op"`
	URL     string `json:"url,omitempty"`
	X       int    `json:"x,omitempty"`
	Y       int    `json:"y,omitempty"`
	W       int    `json:"w,omitempty"`
	H       int    `json:"h,omitempty"`
	Message string `json:"message,omitempty"`
}

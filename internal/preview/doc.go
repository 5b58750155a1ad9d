// Package preview implements the hover preview state machine.
//
// A Controller is created once per page context (one per extension
// connection). Pointer enter/leave events drive it through five states:
//
//	Idle → Pending: pointer entered a link that resolves to an image URL;
//	        the debounce timer is armed, nothing is rendered yet.
//	Pending → Loading: the timer fired and the target is unchanged; a
//	        loading indicator appears at the pointer plus a fixed offset.
//	        A cached URL goes straight on to Shown using the entry's
//	        recorded dimensions; otherwise the image load starts.
//	Loading → Shown/Error: the load completed and still belongs to the
//	        current hover; the container is repositioned so it stays
//	        inside the viewport (flip left/up at the right/bottom edges).
//	any → Idle: pointer left or the hover was superseded; the timer is
//	        cancelled and the container destroyed.
//
// The timer and the load complete asynchronously with no cancellation of
// their own. Each hover increments a generation counter; both callbacks
// capture the generation (and target URL) at start and apply their effect
// only if still current, so only the most recent hover's outcome is ever
// rendered. At most one preview container exists per controller.
//
// Rendering is behind the Renderer port so the state machine is testable
// without a browser on the other end.
package preview

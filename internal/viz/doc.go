// Package viz provides the terminal view of a running fluid solver.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live particle view with telemetry and parameter tuning
//   - [Picker]: preset menu that opens a live view
//   - [Canvas]: Braille-based pixel canvas, two by four dots per cell
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to the initial parameters
//	Tab   - Select the next parameter, Up/Down tune it by 5%
//	C     - Toggle the spatial grid overlay
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	[]    - Time travel (rewind/forward)
package viz

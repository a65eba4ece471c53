// Package viz renders a running simulation in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one simulation with pointer input and force toggles
//   - [NewApp]: preset picker that launches a Model
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to the initial layout
//	1-9   - Toggle forces in configuration order
//	Esc   - Release the pointer
//	D     - Draw the quadtree
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// Mouse motion over the canvas moves every tracking force and a tracking lens.
//
// # Recording
//
// G toggles GIF recording; the animation is written to simulation.gif in the
// current directory.
package viz

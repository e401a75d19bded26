// Package viz renders range tables and a live tabulation view in the terminal.
//
//   - [RenderTable]: lipgloss-styled range table
//   - [LiveModel]: Bubble Tea model that pulls crossings from a tabulator
//     and plots drop and speed as they arrive
//   - [Canvas]: Braille-based pixel canvas for the side view
//
// # Key Bindings
//
//	Space - Pause/Resume tabulation
//	+/-   - More/fewer crossings per frame
//	?     - Show help overlay
//	Q     - Quit
package viz

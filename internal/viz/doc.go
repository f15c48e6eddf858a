// Package viz renders scenes in the terminal.
//
//   - [Plot]: asciigraph chart of one control's value trace
//   - [Live]: Bubble Tea model that steps a scene in real time and lets the
//     user touch, grab and drag its controls
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	Tab     - Select next control
//	T       - Touch/untouch the selected control
//	G       - Grab/ungrab the selected control
//	←/→     - Drag the grabbed control
//	L       - Lock/unlock a door
//	R       - Restart the scene
//	Q       - Quit
package viz

// Package viz draws the blob in a terminal.
//
// [Renderer] rasterizes the extracted surface onto a braille [Canvas] with
// a depth buffer and ordered dithering for shading. [Model] is the Bubble
// Tea program that drives an engine from a ticker and forwards keys and
// the mouse as intents.
//
// # Key Bindings
//
//	n       - Next preset
//	1-9     - Select preset
//	Tab     - Select control
//	Up/Down - Adjust selected control
//	R       - Reset selected control to the preset value
//	Space   - Pause/Resume
//	?       - Toggle help
//	Q       - Quit
//
// Mouse motion moves the pointer ball; the wheel moves the blob along the
// view direction.
package viz

// Package viz renders a chaos equation session in the terminal.
//
// The package implements a Bubble Tea program around a [sim.Controller]:
//
//   - [Model]: the program model; one controller frame per tick
//   - [Canvas]: braille canvas with per sub-pixel brightness
//
// Each tick the canvas is darkened by the session's fade level and the
// visible part of the trail buffer is plotted on top, which reproduces the
// fading trails of the window renderer.
//
// # Key Bindings
//
//	P       - Pause/Resume
//	1 / <   - Slow speed
//	2 / Spc - Normal speed
//	3 / >   - Fast speed
//	C       - Center the view on the trajectory
//	R       - Reset the view
//	N       - New equation
//	K       - Next palette
//	Q / Esc - Quit
//	?       - Toggle help
package viz

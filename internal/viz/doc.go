// Package viz renders a roulette wheel in the terminal.
//
// A [Canvas] is a braille dot grid; [Wheel] projects a layout onto it and
// draws rings, separators, the rotor marker and the ball. [Model] is a
// Bubble Tea program that drives a physics engine at 60 frames per second
// and exposes every config tunable for live adjustment; [App] puts a preset
// picker in front of it.
//
// # Key Bindings
//
//	Space    pause / resume
//	L        launch a new spin
//	R        reset tuning and idle the wheel
//	Tab/↑/↓  select and adjust a parameter
//	[ ]      replay the current spin
//	G        toggle GIF recording
//	T        cycle colour themes
//	?        help overlay
package viz

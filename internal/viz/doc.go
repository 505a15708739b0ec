// Package viz renders simulation results in the terminal.
//
//   - [Summary] and [Compare]: lipgloss panels and tables of headline figures
//   - [Plot] and [PlotMany]: asciigraph line charts of any series
//   - [Model]: a Bubble Tea program replaying a run recorded by [Recorder]
//
// # Key Bindings
//
//	Space - Pause/Resume replay
//	R     - Restart
//	T     - Cycle color themes
//	+/-   - Playback speed
//	[]    - Scrub backward/forward
//	?     - Show help overlay
package viz

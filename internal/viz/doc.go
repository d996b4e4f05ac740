// Package viz is the terminal front end for the reaction-diffusion simulator.
//
// Frames are drawn onto a [Canvas] of half-block cells, two pixels per
// cell, next to a stats panel with an asciigraph plot of mean B, a coverage
// bar and an activity sparkline.
//
// # Key Bindings
//
//	Space   - Pause/Resume simulation
//	R       - Restart from the seed
//	Click   - Drop chemical B under the pointer
//	D / S   - Random drop / toggle random drops
//	M / P   - Cycle color mode / preset
//	C / T   - Random palette / cycle themes
//	Tab ↑↓  - Select and tune a parameter by 5%
//	?       - Show help overlay
package viz

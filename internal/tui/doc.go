// Package tui implements the interactive separation explorer on Bubble Tea.
//
// # Key Bindings
//
//   - ←/→ or h/l: step separation by 0.1 dex
//   - ↑/↓ or k/j: step separation by 0.5 dex
//   - a: toggle loss-cone attenuation
//   - d: toggle circumbinary disk suppression of gas drag
//   - p: cycle the object mass policy
//   - q: quit
package tui

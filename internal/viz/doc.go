// Package viz renders hardening rate profiles for the terminal.
//
//   - [PlotRates]: asciigraph line plot of log10 |da/dt| for the background
//     and gas profiles
//   - [WriteTable]: column-aligned rate table in pc, pc/Myr and Myr
//   - lipgloss styles shared with the interactive explorer
package viz

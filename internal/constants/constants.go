// Package constants holds the physical constants shared by the hardening
// calculations. Everything is in cgs units.
package constants

const (
	NWTG     = 6.67408e-08   // gravitational constant [cm^3 g^-1 s^-2]
	MSOL     = 1.9884754e33  // solar mass [g]
	PC       = 3.08567758e18 // parsec [cm]
	KMPERSEC = 1.0e5         // km/s [cm/s]
	YR       = 3.15576e7     // julian year [s]
)

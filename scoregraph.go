// Package scoregraph converts MusicXML piano scores into a typed,
// cross-referenced JSON-LD property graph and derives a normalized technical
// complexity profile from it: one local complexity index per measure and one
// global complexity index per movement.
package scoregraph

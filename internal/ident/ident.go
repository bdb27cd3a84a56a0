// Package ident computes the positional node identifiers shared by every
// extraction pass. All functions are pure: two passes that compute the id
// for the same structural position always get the same string, which is the
// only mechanism by which independently-run passes land on the same node.
package ident

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix is the compact namespace prefix under which all work-local node ids
// are minted.
const Prefix = "sg:"

// eventOrdinalWidth is the zero-padded width of event ordinals. Six digits
// cover any realistic score; the padding keeps ids lexically sortable in
// document order.
const eventOrdinalWidth = 6

// Work returns the id of the work node, e.g. "sg:Beethoven_Op002No1-01".
// localID is the source document's base name.
func Work(localID string) string {
	return Prefix + localID
}

// Movement returns the id of the index-th movement (1-based) of a work.
func Movement(localID string, index int) string {
	return fmt.Sprintf("%s%s_M%d", Prefix, localID, index)
}

// Staff returns the id of a staff slot within a movement.
func Staff(localID string, movementIndex, staffIndex int) string {
	return fmt.Sprintf("%s_Staff_%d", Movement(localID, movementIndex), staffIndex)
}

// Clef returns the id of the single clef instance kept per (movement, staff).
func Clef(localID string, movementIndex, staffIndex int) string {
	return Staff(localID, movementIndex, staffIndex) + "_Clef"
}

// Measure returns the id of a measure keyed by its sanitized label.
func Measure(localID string, movementIndex int, sanitizedLabel string) string {
	return fmt.Sprintf("%s_Measure_%s", Movement(localID, movementIndex), sanitizedLabel)
}

// SanitizeLabel maps a raw measure label to its id-safe form: every
// non-alphanumeric rune becomes '_'. An empty label falls back to the
// 1-based position of the measure in the whole unsegmented sequence.
func SanitizeLabel(raw string, fallbackOrdinal int) string {
	if raw == "" {
		raw = strconv.Itoa(fallbackOrdinal)
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if isAlnum(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// Event returns the id of the ordinal-th note-or-rest of the work. The
// ordinal counts across the entire work, not per measure or movement.
func Event(measureID string, ordinal int) string {
	return fmt.Sprintf("%s_Event_%0*d", measureID, eventOrdinalWidth, ordinal)
}

// Sub-feature ids are formed by suffixing the parent id.

// Duration returns the id of an event's duration node.
func Duration(eventID string) string { return eventID + "_Dur" }

// Pitch returns the id of an event's pitch node.
func Pitch(eventID string) string { return eventID + "_Pitch" }

// Accidental returns the id of an event's accidental node.
func Accidental(eventID string) string { return eventID + "_Accidental" }

// Dynamic returns the id of the n-th dynamic attached to an event (1-based).
func Dynamic(eventID string, n int) string {
	return fmt.Sprintf("%s_Dyn_%d", eventID, n)
}

// Articulation returns the id of the n-th articulation attached to an event
// (1-based).
func Articulation(eventID string, n int) string {
	return fmt.Sprintf("%s_Art_%d", eventID, n)
}

// TimeSignature returns the id of a measure's time signature node.
func TimeSignature(measureID string) string { return measureID + "_TimeSig" }

// Tempo returns the id of the n-th tempo marking in a measure (1-based).
// Tempo occurrences are never deduplicated, so each gets its own slot.
func Tempo(measureID string, n int) string {
	return fmt.Sprintf("%s_Tempo_%d", measureID, n)
}

// LCI returns the id of a measure's local complexity index node.
func LCI(measureID string) string { return measureID + "_LCI" }

// GCP returns the id of a movement's global complexity profile node.
func GCP(movementID string) string { return movementID + "_GCP" }

// Instrument returns the id of the work's instrument node.
func Instrument(localID string) string { return Work(localID) + "_Instrument" }

// GlobalKey returns the id of the work's global key node.
func GlobalKey(localID string) string { return Work(localID) + "_GlobalKey" }

// GlobalKeySignature returns the id of the work's global key signature node.
func GlobalKeySignature(localID string) string {
	return Work(localID) + "_GlobalKeySignature"
}

// Counter allocates the globally monotonic event ordinals. It is an explicit
// value threaded through a traversal rather than package state, so two
// passes can each run their own counter and independently reproduce the
// same ordinal sequence.
type Counter struct {
	next int
}

// NewCounter returns a counter whose first Next call yields 1.
func NewCounter() *Counter {
	return &Counter{next: 1}
}

// Next returns the current ordinal and advances the counter.
func (c *Counter) Next() int {
	n := c.next
	c.next++
	return n
}

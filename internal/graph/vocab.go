package graph

import "fmt"

// Type tags. The document keeps types as an open accumulate-only union, but
// every tag the passes write or test against is named here so there is one
// closed vocabulary instead of string literals scattered across passes.
const (
	TypeMusicalWork       = "mo:MusicalWork"
	TypeSonata            = "sg:Sonata"
	TypeMetadata          = "sg:Metadata"
	TypeStructuralElement = "sg:StructuralElement"

	TypeMovement       = "mso:Movement"
	TypeSonataMovement = "sg:SonataMovement"

	TypeStaff           = "mso:Staff"
	TypePianoStaff      = "sg:PianoStaff"
	TypeUpperPianoStaff = "sg:UpperPianoStaff"
	TypeLowerPianoStaff = "sg:LowerPianoStaff"

	TypeMeasure = "mso:Measure"

	TypeNotationElement = "sg:MusicNotationElement"
	TypeMelodicElement  = "sg:MelodicElement"
	TypeHarmonicElement = "sg:HarmonicElement"

	TypeSymbolicEvent = "ho:SymbolicEvent"
	TypeNote          = "mso:Note"
	TypeRest          = "mso:Rest"

	TypeDuration   = "sg:Duration"
	TypePitch      = "sg:Pitch"
	TypeAccidental = "mto:Accidental"

	TypeTimeSignature = "mso:TimeSignature"
	TypeSignature     = "mto:Signature"
	TypeClef          = "mso:Clef"
	TypeTempo         = "sg:Tempo"

	TypeExpressiveElement = "sg:ExpressiveElement"
	TypeDynamic           = "mso:Dynamic"
	TypeLoudnessDynamic   = "sg:LoudnessDynamic"
	TypeArticulation      = "mso:Articulation"
	TypeStaccato          = "sg:Staccato"
	TypeAccent            = "sg:Accent"
	TypeTenuto            = "sg:Tenuto"
	TypeLegato            = "sg:Legato"

	TypeLocalComplexityIndex    = "sg:LocalComplexityIndex"
	TypeGlobalComplexityProfile = "sg:GlobalComplexityProfile"
	TypeComplexityProfile       = "sg:TechnicalComplexityProfile"

	TypeKey          = "mto:Key"
	TypeKeySignature = "mto:KeySignature"
	TypeInstrument   = "sg:Instrument"
	TypePiano        = "sg:Piano"
)

// Property keys.
const (
	PropTitle    = "sg:title"
	PropComposer = "sg:composer"
	PropSource   = "dct:source"
	PropLabel    = "rdfs:label"

	PropHasMovement   = "sg:hasMovement"
	PropMovementIndex = "sg:movementIndex"

	PropMovementHasStaff   = "sg:movementHasStaff"
	PropMovementHasPiano   = "sg:sonataMovementHasPianoStaff"
	PropMovementHasMeasure = "sg:movementHasMeasure"

	PropStaffIndex       = "sg:staffIndex"
	PropStaffHasMeasure  = "sg:staffHasMeasure"
	PropStaffHasClef     = "sg:staffHasClef"
	PropIsMeasureOfStaff = "sg:isMeasureOfStaff"
	PropNumber           = "sg:number"

	PropHasTimeSignature = "sg:hasTimeSignature"
	PropTimeSignatureOf  = "sg:timeSignatureOf"
	PropNumerator        = "sg:numerator"
	PropDenominator      = "sg:denominator"
	PropSymbol           = "sg:symbol"

	PropHasClef = "sg:hasClef"
	PropSign    = "sg:sign"
	PropLine    = "sg:line"

	PropHasTempo  = "sg:hasTempo"
	PropIsTempoOf = "sg:isTempoOf"
	PropBPM       = "sg:bpm"
	PropTempoText = "sg:tempoText"
	PropBeatUnit  = "sg:beatUnit"

	PropHasSymbolicEvent = "sg:hasSymbolicEvent"
	PropIsInMeasure      = "sg:isInMeasure"
	PropHasDuration      = "sg:hasDuration"
	PropNoteType         = "sg:noteType"
	PropDots             = "sg:dots"
	PropOctave           = "sg:octave"
	PropHasPitch         = "sg:hasPitch"
	PropHasAccidental    = "sg:hasAccidental"
	PropSemitoneShift    = "sg:semitoneShift"

	PropHasDynamic       = "sg:hasDynamic"
	PropIsDynamicOf      = "sg:isDynamicOf"
	PropDynamicValue     = "sg:dynamicValue"
	PropDynamicLevel     = "sg:dynamicLevel"
	PropHasArticulation  = "sg:hasArticulation"
	PropIsArticulationOf = "sg:isArticulationOf"
	PropArticulationText = "sg:articulationText"

	PropHasLCI                 = "sg:hasLocalComplexityIndex"
	PropNoteCount              = "sg:noteCount"
	PropMeasureAccidentalCount = "sg:measureAccidentalCount"
	PropSubdivisionIndex       = "sg:subdivisionIndex"
	PropMinNoteValue           = "sg:minNoteValue"
	PropDynamicCount           = "sg:dynamicCount"
	PropArticulationCount      = "sg:articulationCount"
	PropLCIValue               = "sg:LCIvalue"
	PropHasGCP                 = "sg:hasGlobalComplexityProfile"
	PropGlobalComplexityIndex  = "sg:globalComplexityIndex"

	// PropNoteDensity is a retired metric key. The complexity engine removes
	// it from LCI nodes whenever it rewrites them.
	PropNoteDensity = "sg:noteDensity"

	PropHasInstrument   = "sg:hasInstrument"
	PropHasKey          = "sg:hasKey"
	PropHasTonic        = "sg:hasTonic"
	PropHasMode         = "sg:hasMode"
	PropAccidentalCount = "sg:accidentalCount"
	PropAccidentalType  = "sg:accidentalType"
	PropRepresentsKey   = "sg:representsKey"
)

// TimeSignatureClass derives the specific class tag for a numeric time
// signature, e.g. "sg:TS_3_4".
func TimeSignatureClass(numerator, denominator int) string {
	return fmt.Sprintf("sg:TS_%d_%d", numerator, denominator)
}

// PitchClass returns the class tag for a pitch step letter, e.g. "sg:C".
func PitchClass(step string) string {
	return "sg:" + step
}

// KeyClass returns the class tag for a tonic/mode pair, e.g.
// "sg:Key_F_minor".
func KeyClass(tonic, mode string) string {
	return fmt.Sprintf("sg:Key_%s_%s", tonic, mode)
}

// KeySignatureClass returns the class tag for a fifths count, e.g.
// "sg:KS_3flats", "sg:KS_0".
func KeySignatureClass(fifths int) string {
	switch {
	case fifths == 0:
		return "sg:KS_0"
	case fifths > 0:
		return fmt.Sprintf("sg:KS_%dsharps", fifths)
	default:
		return fmt.Sprintf("sg:KS_%dflats", -fifths)
	}
}

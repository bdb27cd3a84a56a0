package extract

import (
	"github.com/mvaldes/scoregraph/internal/graph"
	"github.com/mvaldes/scoregraph/internal/ident"
	"github.com/mvaldes/scoregraph/internal/score"
)

// defaultStaffCount is the fallback when a part neither declares a staff
// count nor references staves from its notes. Two is the piano convention
// this corpus is built around.
const defaultStaffCount = 2

// Structure populates the work, movement, staff, and measure nodes and
// their containment edges. Re-running it over an already-populated document
// creates no duplicate nodes or edges: ids recompute identically and edge
// appends de-duplicate by target.
type Structure struct {
	Seg           Segmenter
	DefaultStaves int
}

func (p *Structure) segmenter() Segmenter {
	if p.Seg != nil {
		return p.Seg
	}
	return LabelSegmenter{}
}

// Run merges the structural layer into the document.
func (p *Structure) Run(doc *graph.Document, sc *score.Score) error {
	part := sc.FirstPart()
	if part == nil {
		return score.ErrNoParts
	}
	if len(part.Measures) == 0 {
		return score.ErrNoMeasures
	}

	segments := p.segmenter().Segment(part.Measures)
	staves := p.staffCount(part)

	work := doc.GetOrCreate(ident.Work(sc.WorkID), graph.TypeMusicalWork, graph.TypeSonata)

	for _, seg := range segments {
		movementID := ident.Movement(sc.WorkID, seg.MovementIndex)
		movement := doc.GetOrCreate(movementID,
			graph.TypeMovement, graph.TypeSonataMovement, graph.TypeStructuralElement)
		movement.Set(graph.PropMovementIndex, seg.MovementIndex)

		staffIDs := make([]string, 0, staves)
		for staffIdx := 1; staffIdx <= staves; staffIdx++ {
			staffID := ident.Staff(sc.WorkID, seg.MovementIndex, staffIdx)
			staff := doc.GetOrCreate(staffID,
				graph.TypeStaff, graph.TypePianoStaff, graph.TypeStructuralElement)
			if staves == 2 {
				switch staffIdx {
				case 1:
					staff.AddType(graph.TypeUpperPianoStaff)
				case 2:
					staff.AddType(graph.TypeLowerPianoStaff)
				}
			}
			staff.Set(graph.PropStaffIndex, staffIdx)

			movement.AppendRef(graph.PropMovementHasStaff, staffID)
			movement.AppendRef(graph.PropMovementHasPiano, staffID)
			staffIDs = append(staffIDs, staffID)
		}

		for i := seg.Start; i < seg.End; i++ {
			m := part.Measures[i]
			label := ident.SanitizeLabel(m.Number, i+1)
			measureID := ident.Measure(sc.WorkID, seg.MovementIndex, label)

			measure := doc.GetOrCreate(measureID, graph.TypeMeasure, graph.TypeStructuralElement)
			if _, ok := measure.Props[graph.PropNumber]; !ok {
				if m.Number != "" {
					measure.Set(graph.PropNumber, graph.IntOrString(m.Number))
				} else {
					measure.Set(graph.PropNumber, i+1)
				}
			}
			for _, staffID := range staffIDs {
				measure.AppendRef(graph.PropIsMeasureOfStaff, staffID)
			}

			movement.AppendRef(graph.PropMovementHasMeasure, measureID)
			for _, staffID := range staffIDs {
				doc.Lookup(staffID).AppendRef(graph.PropStaffHasMeasure, measureID)
			}
		}

		work.AppendRef(graph.PropHasMovement, movementID)
	}
	return nil
}

// staffCount resolves the number of staff slots: an explicit attributes
// staff count wins, then the highest staff a note references, then the
// configured default.
func (p *Structure) staffCount(part *score.Part) int {
	for _, m := range part.Measures {
		if m.Attributes != nil && m.Attributes.Staves > 0 {
			return m.Attributes.Staves
		}
	}

	maxStaff := 0
	for _, m := range part.Measures {
		for _, n := range m.Notes() {
			if n.Staff > maxStaff {
				maxStaff = n.Staff
			}
		}
	}
	if maxStaff > 0 {
		return maxStaff
	}

	if p.DefaultStaves > 0 {
		return p.DefaultStaves
	}
	return defaultStaffCount
}

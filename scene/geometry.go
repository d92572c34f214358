// Package scene converts agent records into renderable shapes and
// composes them into per-tick frames.
package scene

import (
	"errors"
	"fmt"

	"github.com/pellicle-io/pellicle/types"
)

// Sentinel errors for shape construction.
var (
	// ErrGeometryRejected indicates an agent whose geometry cannot
	// form a valid shape (cell length shorter than its diameter).
	// Rejected records are skipped; the frame continues without them.
	ErrGeometryRejected = errors.New("invalid agent geometry")

	// ErrUnclassifiedAgent indicates a record excluded from both
	// render partitions.
	ErrUnclassifiedAgent = errors.New("unclassified agent type")
)

// GeometryError wraps a shape-construction failure with record context
// for upstream data-quality diagnosis.
type GeometryError struct {
	Tick int
	Pos  types.Vec2
	Err  error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("tick %d at (%.3f, %.3f): %v", e.Tick, e.Pos.X, e.Pos.Y, e.Err)
}

// Unwrap returns the underlying error for errors.Is chain traversal.
func (e *GeometryError) Unwrap() error {
	return e.Err
}

// BuildShape converts one agent record into its renderable primitive.
//
// EPS particles become a disc of radius diameter/2 at the record's
// position. Cells become a capsule: a rectangular body of length
// length-diameter and width diameter flanked by two cap discs of
// radius diameter/2, so the end-to-end length equals the record's
// length exactly. Sub-shapes are laid out in a local frame with the
// long axis along +X, then rotated by atan2(orientation_Y,
// orientation_X) and translated to the record's position.
//
// A cell with length == diameter yields a zero-body capsule (a single
// disc). A cell with length < diameter is rejected: the body
// half-length would be negative, which always signals an upstream data
// error, so it is surfaced rather than clamped away.
func BuildShape(rec types.AgentRecord) (types.Shape, error) {
	switch rec.Type {
	case types.AgentEPS:
		return types.Disc{
			Center: rec.Pos,
			Radius: rec.Diameter / 2,
		}, nil

	case types.AgentCell:
		if rec.Length < rec.Diameter {
			return nil, &GeometryError{
				Tick: rec.Tick,
				Pos:  rec.Pos,
				Err:  fmt.Errorf("%w: length %.4f < diameter %.4f", ErrGeometryRejected, rec.Length, rec.Diameter),
			}
		}
		return types.Capsule{
			Center:     rec.Pos,
			HalfLength: (rec.Length - rec.Diameter) / 2,
			HalfWidth:  rec.Diameter / 2,
			Angle:      rec.Orientation.Angle(),
		}, nil

	default:
		return nil, &GeometryError{
			Tick: rec.Tick,
			Pos:  rec.Pos,
			Err:  ErrUnclassifiedAgent,
		}
	}
}

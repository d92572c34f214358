// Package types defines the shared data model for the pellicle pipeline:
// agent records as ingested from simulation output, the geometric
// primitives derived from them, and the frames handed to sinks.
package types

// AgentType discriminates the two particle kinds emitted by the simulation.
type AgentType string

// Agent type constants. The ingestor maps the literal CSV values
// "cell" and "eps"; anything else becomes AgentUnclassified.
const (
	AgentCell AgentType = "cell"
	AgentEPS  AgentType = "eps"
	// AgentUnclassified marks records whose agent_type field was not
	// recognized. They are retained for counting but excluded from
	// both render partitions.
	AgentUnclassified AgentType = "unclassified"
)

// Known returns true if the agent type is one of the render partitions.
func (t AgentType) Known() bool {
	return t == AgentCell || t == AgentEPS
}

// AgentRecord is one cleaned row of simulation output.
//
// Records are constructed once by the ingestor and immutable thereafter;
// the tick index owns them. Invariants enforced at ingestion:
// Tick >= 0 and Diameter > 0. Length and Orientation are only
// meaningful for AgentCell.
type AgentRecord struct {
	// Tick is the simulation step this record belongs to.
	Tick int
	// Type partitions the record into cell / eps / unclassified.
	Type AgentType
	// Pos is the agent's world-coordinate position.
	Pos Vec2
	// Diameter is the particle width (cells) or disc diameter (eps).
	Diameter float64
	// Length is the cell's end-to-end length, including both caps.
	// Unused for EPS particles.
	Length float64
	// Orientation is the cell's heading vector. Unused for EPS particles.
	Orientation Vec2
}

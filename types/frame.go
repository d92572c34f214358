package types

// FrameShape pairs a renderable primitive with the agent partition it
// came from, which drives fill color at raster time.
type FrameShape struct {
	Agent AgentType
	Shape Shape
}

// Frame is one fully composed, renderable snapshot for a single tick.
// Frames are self-contained: they hold no references to other frames
// or to the tick index, so they may be built in parallel and in any
// order as long as the sink receives them sequentially.
type Frame struct {
	// Tick is the simulation step this frame depicts.
	Tick int
	// Shapes holds the renderables in draw order: all EPS shapes
	// precede all cell shapes so the biofilm matrix never occludes
	// cell bodies.
	Shapes []FrameShape
	// Caption is the human-readable frame title.
	Caption string
	// CellCount and EPSCount are the partition sizes at this tick.
	CellCount int
	EPSCount  int
}

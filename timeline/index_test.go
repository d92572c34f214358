package timeline

import (
	"testing"

	"github.com/pellicle-io/pellicle/types"
)

func rec(tick int, x, y float64) types.AgentRecord {
	return types.AgentRecord{
		Tick:     tick,
		Type:     types.AgentCell,
		Pos:      types.Vec2{X: x, Y: y},
		Diameter: 1,
		Length:   2,
	}
}

func TestNewIndex_SortsAndDedupes(t *testing.T) {
	records := []types.AgentRecord{
		rec(5, 0, 0),
		rec(1, 0, 0),
		rec(5, 1, 1),
		rec(3, 0, 0),
		rec(1, 2, 2),
	}

	ix := NewIndex(records)

	ticks := ix.Ticks()
	want := []int{1, 3, 5}
	if len(ticks) != len(want) {
		t.Fatalf("Ticks() = %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Errorf("Ticks()[%d] = %d, want %d", i, ticks[i], want[i])
		}
	}

	// Strictly increasing.
	for i := 1; i < len(ticks); i++ {
		if ticks[i] <= ticks[i-1] {
			t.Errorf("tick sequence not strictly increasing at %d: %v", i, ticks)
		}
	}
}

func TestIndex_At(t *testing.T) {
	ix := NewIndex([]types.AgentRecord{
		rec(0, 1, 1),
		rec(1, 2, 2),
		rec(0, 3, 3),
	})

	at0 := ix.At(0)
	if len(at0) != 2 {
		t.Fatalf("At(0) returned %d records, want 2", len(at0))
	}
	// Input order preserved within a tick.
	if at0[0].Pos.X != 1 || at0[1].Pos.X != 3 {
		t.Errorf("At(0) order wrong: %v", at0)
	}

	if got := ix.At(99); got != nil {
		t.Errorf("At(99) = %v, want nil", got)
	}
}

func TestIndex_Empty(t *testing.T) {
	ix := NewIndex(nil)

	if !ix.Empty() {
		t.Error("empty index should report Empty")
	}
	if len(ix.Ticks()) != 0 {
		t.Errorf("Ticks() = %v, want empty", ix.Ticks())
	}
	if _, ok := ix.LastTick(); ok {
		t.Error("LastTick should report no ticks")
	}
}

func TestIndex_LastTick(t *testing.T) {
	ix := NewIndex([]types.AgentRecord{rec(2, 0, 0), rec(7, 0, 0), rec(4, 0, 0)})
	last, ok := ix.LastTick()
	if !ok || last != 7 {
		t.Errorf("LastTick = %d,%v, want 7,true", last, ok)
	}
}

func TestComputeViewport(t *testing.T) {
	records := []types.AgentRecord{
		{Tick: 9, Type: types.AgentCell, Pos: types.Vec2{X: -1, Y: 2}, Diameter: 1, Length: 3},
		{Tick: 9, Type: types.AgentEPS, Pos: types.Vec2{X: 4, Y: -5}, Diameter: 2},
	}

	vp := ComputeViewport(records, nil)

	// Largest dimension is length 3, padding is 6.
	want := types.Viewport{MinX: -7, MaxX: 10, MinY: -11, MaxY: 8}
	if vp != want {
		t.Errorf("viewport = %+v, want %+v", vp, want)
	}

	// Every position contained with room to spare.
	for _, r := range records {
		if !vp.Contains(r.Pos) {
			t.Errorf("position %v outside viewport %+v", r.Pos, vp)
		}
	}
}

func TestComputeViewport_PaddingCoversShapes(t *testing.T) {
	// A cell at the bounding-box corner must fit entirely inside the
	// padded viewport, including its capsule half-length projection.
	records := []types.AgentRecord{
		{Tick: 0, Type: types.AgentCell, Pos: types.Vec2{X: 10, Y: 10}, Diameter: 1, Length: 4,
			Orientation: types.Vec2{X: 1, Y: 0}},
		{Tick: 0, Type: types.AgentCell, Pos: types.Vec2{X: 0, Y: 0}, Diameter: 1, Length: 4,
			Orientation: types.Vec2{X: 1, Y: 0}},
	}

	vp := ComputeViewport(records, nil)

	// Padding is 2*4=8, far exceeding the half-length of 2 plus cap
	// radius 0.5 in any direction.
	for _, r := range records {
		extreme := r.Pos.Add(types.Vec2{X: r.Length / 2, Y: r.Length / 2})
		if !vp.Contains(extreme) {
			t.Errorf("shape extent %v outside viewport %+v", extreme, vp)
		}
	}
}

func TestComputeViewport_EmptyFallsBack(t *testing.T) {
	vp := ComputeViewport(nil, nil)
	if vp != types.DefaultViewport {
		t.Errorf("viewport = %+v, want default %+v", vp, types.DefaultViewport)
	}
}

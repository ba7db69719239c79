package vfx

import "github.com/go-gl/mathgl/mgl32"

// Renderer receives per-slot particle data and trail samples.
//
// Slots are in [0, MaxCount). Implementations must tolerate out-of-range
// slots without panicking.
type Renderer interface {
	SetParticlePoint(slot int, p *Point)
	RemoveParticlePoint(slot int)

	ClearTrail(slot int)
	AddTrailPoint(slot int, pos mgl32.Vec3, tp TrailPoint)
	TrailStartPosition(slot int) (mgl32.Vec3, bool)
	SetTrailStartPosition(slot int, pos mgl32.Vec3)
	HasTrail() bool

	UpdateTime(now, dt float64)
	Reset()
	MinusTimeForLoop(duration float64)
	ParticlePointColor(slot int) (mgl32.Vec4, bool)
}

// Item is the host object that owns a particle system.
type Item interface {
	Duration() float64
	EndBehavior() EndBehavior
	Transform() *Transform
}

// StaticItem is an Item with fixed values.
type StaticItem struct {
	Length   float64
	Behavior EndBehavior
	World    Transform
}

// Duration implements Item.
func (s *StaticItem) Duration() float64 { return s.Length }

// EndBehavior implements Item.
func (s *StaticItem) EndBehavior() EndBehavior { return s.Behavior }

// Transform implements Item.
func (s *StaticItem) Transform() *Transform { return &s.World }

// NopRenderer discards everything. It is used when no renderer is supplied.
type NopRenderer struct{}

func (NopRenderer) SetParticlePoint(int, *Point) {}
func (NopRenderer) RemoveParticlePoint(int) {}
func (NopRenderer) ClearTrail(int) {}
func (NopRenderer) AddTrailPoint(int, mgl32.Vec3, TrailPoint) {}
func (NopRenderer) TrailStartPosition(int) (mgl32.Vec3, bool) { return mgl32.Vec3{}, false }
func (NopRenderer) SetTrailStartPosition(int, mgl32.Vec3) {}
func (NopRenderer) HasTrail() bool { return false }
func (NopRenderer) UpdateTime(float64, float64) {}
func (NopRenderer) Reset() {}
func (NopRenderer) MinusTimeForLoop(float64) {}
func (NopRenderer) ParticlePointColor(int) (mgl32.Vec4, bool) { return mgl32.Vec4{}, false }

package vfx

import (
	"github.com/decker502/vfx/pkg/shape"
	"github.com/go-gl/mathgl/mgl32"
)

// fixedShape always generates the same spawn.
type fixedShape struct {
	pos, dir mgl32.Vec3
	align    bool
	up       *mgl32.Vec3
	calls    []shape.Options
}

func (f *fixedShape) Generate(opts shape.Options) shape.Shape {
	f.calls = append(f.calls, opts)
	return shape.Shape{Position: f.pos, Direction: f.dir}
}

func (f *fixedShape) AlignSpeedDirection() bool { return f.align }

func (f *fixedShape) UpDirection() (mgl32.Vec3, bool) {
	if f.up == nil {
		return mgl32.Vec3{}, false
	}
	return *f.up, true
}

// recordingRenderer keeps every call the system makes.
type recordingRenderer struct {
	trails      bool
	points      map[int]*Point
	removed     []int
	cleared     []int
	trailPoints map[int][]TrailPoint
	trailStart  map[int]mgl32.Vec3
	loops       []float64
	resets      int
	now         float64
}

func newRecordingRenderer(trails bool) *recordingRenderer {
	return &recordingRenderer{
		trails:      trails,
		points:      make(map[int]*Point),
		trailPoints: make(map[int][]TrailPoint),
		trailStart:  make(map[int]mgl32.Vec3),
	}
}

func (r *recordingRenderer) SetParticlePoint(slot int, p *Point) { r.points[slot] = p }
func (r *recordingRenderer) RemoveParticlePoint(slot int) {
	r.removed = append(r.removed, slot)
	delete(r.points, slot)
}
func (r *recordingRenderer) ClearTrail(slot int) {
	r.cleared = append(r.cleared, slot)
	delete(r.trailPoints, slot)
}
func (r *recordingRenderer) AddTrailPoint(slot int, _ mgl32.Vec3, tp TrailPoint) {
	r.trailPoints[slot] = append(r.trailPoints[slot], tp)
}
func (r *recordingRenderer) TrailStartPosition(slot int) (mgl32.Vec3, bool) {
	v, ok := r.trailStart[slot]
	return v, ok
}
func (r *recordingRenderer) SetTrailStartPosition(slot int, pos mgl32.Vec3) { r.trailStart[slot] = pos }
func (r *recordingRenderer) HasTrail() bool { return r.trails }
func (r *recordingRenderer) UpdateTime(now, _ float64) { r.now = now }
func (r *recordingRenderer) Reset() { r.resets++ }
func (r *recordingRenderer) MinusTimeForLoop(d float64) { r.loops = append(r.loops, d) }
func (r *recordingRenderer) ParticlePointColor(slot int) (mgl32.Vec4, bool) {
	p, ok := r.points[slot]
	if !ok {
		return mgl32.Vec4{}, false
	}
	return p.Color, true
}

func vecNear(a, b mgl32.Vec3, eps float32) bool {
	return a.Sub(b).Len() <= eps
}

func shapeOpts() shape.Options {
	return shape.Options{}
}

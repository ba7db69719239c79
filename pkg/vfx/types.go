// Package vfx implements the particle-system update loop.
//
// A ParticleSystem spawns particles from a rate curve and a list of bursts,
// keeps live particles in an expiry-sorted pool of bounded size, maintains
// optional trails and answers ray hit-tests. Particle positions are never
// integrated frame by frame: PointPosition evaluates them analytically from
// the spawn state and the current clock, which is what lets a restart loop
// rewind the clock without disturbing live particles.
//
// A ParticleSystem is driven from a single goroutine (the game loop).
package vfx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrInvalidMaxCount is returned for a negative pool capacity.
	ErrInvalidMaxCount = errors.New("max count must not be negative")
	// ErrUnknownEndBehavior is returned by ParseEndBehavior.
	ErrUnknownEndBehavior = errors.New("unknown end behavior")
	// ErrNoEffect is returned when a named effect does not exist.
	ErrNoEffect = errors.New("no such effect")
)

// EndBehavior decides what happens when the item's duration elapses.
type EndBehavior int

const (
	// Destroy ends emission and reports Destroyed once every particle expired.
	Destroy EndBehavior = iota
	// Freeze ends emission and stops the clock.
	Freeze
	// Restart rewinds the clock by the duration and keeps emitting.
	Restart
)

func (b EndBehavior) String() string {
	switch b {
	case Destroy:
		return "destroy"
	case Freeze:
		return "freeze"
	case Restart:
		return "restart"
	default:
		return fmt.Sprintf("EndBehavior(%d)", int(b))
	}
}

// ParseEndBehavior parses an authored end behavior. Empty means Destroy.
func ParseEndBehavior(s string) (EndBehavior, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "destroy":
		return Destroy, nil
	case "freeze":
		return Freeze, nil
	case "restart", "loop":
		return Restart, nil
	default:
		return Destroy, fmt.Errorf("%w: %q", ErrUnknownEndBehavior, s)
	}
}

// Transform is a position, Euler rotation in degrees and scale.
// A zero Scale is treated as unit scale, so the zero Transform is the identity.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// NewTransform returns an identity transform at pos.
func NewTransform(pos mgl32.Vec3) Transform {
	return Transform{Position: pos, Scale: mgl32.Vec3{1, 1, 1}}
}

// EffectiveScale returns Scale with the zero value mapped to (1, 1, 1).
func (t *Transform) EffectiveScale() mgl32.Vec3 {
	if t.Scale == (mgl32.Vec3{}) {
		return mgl32.Vec3{1, 1, 1}
	}
	return t.Scale
}

// Quat returns the rotation as a quaternion.
func (t *Transform) Quat() mgl32.Quat {
	return mgl32.AnglesToQuat(
		mgl32.DegToRad(t.Rotation.X()),
		mgl32.DegToRad(t.Rotation.Y()),
		mgl32.DegToRad(t.Rotation.Z()),
		mgl32.XYZ,
	)
}

// Matrix returns translate * rotate * scale.
func (t *Transform) Matrix() mgl32.Mat4 {
	s := t.EffectiveScale()
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Quat().Mat4()).
		Mul4(mgl32.Scale3D(s.X(), s.Y(), s.Z()))
}

// Translate moves the transform by d.
func (t *Transform) Translate(d mgl32.Vec3) {
	t.Position = t.Position.Add(d)
}

// Sprite is the texture-sheet animation state sampled at spawn.
type Sprite struct {
	Delay    float64 // Seconds before the animation starts
	Duration float64 // Seconds per cycle
	Cycles   float64 // Number of cycles, 0 plays forever
}

// Point is the spawn state of one particle.
type Point struct {
	Transform Transform  // Base position, rotation and scale at spawn
	Vel       mgl32.Vec3 // Direction * start speed
	Color     mgl32.Vec4
	Size      mgl32.Vec2
	Lifetime  float64 // Seconds
	Delay     float64 // Clock time the particle becomes visible
	Gravity   mgl32.Vec3
	Sprite    *Sprite
	DirX      mgl32.Vec3 // Basis vectors for speed-aligned particles
	DirY      mgl32.Vec3
}

// Expiry returns the clock time the particle retires.
func (p *Point) Expiry() float64 {
	return p.Delay + p.Lifetime
}

// Entry is one pool element, ordered by Expiry.
type Entry struct {
	Expiry float64
	Slot   int
	Delay  float64
	Point  *Point
}

func compareEntries(a, b Entry) int {
	switch {
	case a.Expiry < b.Expiry:
		return -1
	case a.Expiry > b.Expiry:
		return 1
	default:
		return 0
	}
}

// TrailPoint is one trail sample handed to the renderer.
type TrailPoint struct {
	Color    mgl32.Vec4
	Size     float32 // Width
	Lifetime float64 // Seconds the sample stays visible
	Time     float64 // Clock time the sample was taken
}

// Box is the visible extent of a live particle.
type Box struct {
	Slot   int
	Center mgl32.Vec3
	Size   mgl32.Vec2
}

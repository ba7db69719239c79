// Package shape generates particle spawn positions and directions.
//
// Shapes live in emitter space with Y pointing down, matching screen
// coordinates: "up" for a cone or hemisphere is -Y.
package shape

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/decker502/vfx/internal/particle"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownShape is returned for an unrecognized shape type.
var ErrUnknownShape = errors.New("unknown shape type")

// Options describes the spawn being generated.
type Options struct {
	Total      float64 // Ticks per second of the emitting burst, 0 for rate spawns
	Index      int     // Index of the particle within this frame's spawn batch
	BurstIndex int     // Index of the particle within its burst
	BurstCount int     // Particles in the burst, 0 for rate spawns
}

// Shape is one generated spawn.
type Shape struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3 // Unit length
}

// Generator produces spawn shapes for a particle system.
type Generator interface {
	Generate(opts Options) Shape
	// AlignSpeedDirection reports whether particles orient along their velocity.
	AlignSpeedDirection() bool
	// UpDirection returns the reference up vector for aligned particles, if set.
	UpDirection() (mgl32.Vec3, bool)
}

// Base carries the alignment flags and random source shared by all shapes.
type Base struct {
	Align bool
	Up    *mgl32.Vec3
	Rand  *rand.Rand
}

// AlignSpeedDirection implements Generator.
func (b *Base) AlignSpeedDirection() bool { return b.Align }

// UpDirection implements Generator.
func (b *Base) UpDirection() (mgl32.Vec3, bool) {
	if b.Up == nil {
		return mgl32.Vec3{}, false
	}
	return *b.Up, true
}

func (b *Base) float() float32 {
	if b.Rand != nil {
		return b.Rand.Float32()
	}
	return rand.Float32()
}

// unitVector returns a uniformly distributed direction on the unit sphere.
func (b *Base) unitVector() mgl32.Vec3 {
	z := 2*b.float() - 1
	theta := 2 * math.Pi * float64(b.float())
	r := float32(math.Sqrt(float64(1 - z*z)))
	return mgl32.Vec3{r * float32(math.Cos(theta)), r * float32(math.Sin(theta)), z}
}

// Point emits every particle from the origin straight up.
type Point struct {
	Base
}

// Generate implements Generator.
func (p *Point) Generate(Options) Shape {
	return Shape{Direction: mgl32.Vec3{0, -1, 0}}
}

// Sphere emits outward from inside a sphere.
type Sphere struct {
	Base
	Radius float32
}

// Generate implements Generator.
func (s *Sphere) Generate(Options) Shape {
	dir := s.unitVector()
	return Shape{Position: dir.Mul(s.Radius * s.float()), Direction: dir}
}

// Hemisphere is a Sphere restricted to the upper (-Y) half.
type Hemisphere struct {
	Base
	Radius float32
}

// Generate implements Generator.
func (h *Hemisphere) Generate(Options) Shape {
	dir := h.unitVector()
	if dir[1] > 0 {
		dir[1] = -dir[1]
	}
	return Shape{Position: dir.Mul(h.Radius * h.float()), Direction: dir}
}

// Cone emits upward within Angle degrees of -Y from a disc of Radius.
type Cone struct {
	Base
	Radius float32
	Angle  float32
}

// Generate implements Generator.
func (c *Cone) Generate(Options) Shape {
	// offset on the base disc, in the XZ plane
	phi := 2 * math.Pi * float64(c.float())
	r := c.Radius * float32(math.Sqrt(float64(c.float())))
	pos := mgl32.Vec3{r * float32(math.Cos(phi)), 0, r * float32(math.Sin(phi))}

	// direction: tilt -Y by up to Angle around a random azimuth
	tilt := float64(mgl32.DegToRad(c.Angle * c.float()))
	az := 2 * math.Pi * float64(c.float())
	dir := mgl32.Vec3{
		float32(math.Sin(tilt) * math.Cos(az)),
		-float32(math.Cos(tilt)),
		float32(math.Sin(tilt) * math.Sin(az)),
	}
	return Shape{Position: pos, Direction: dir.Normalize()}
}

// Circle emits outward in the XY plane along an Arc in degrees.
// Burst spawns are spread evenly over the arc; rate spawns are random.
type Circle struct {
	Base
	Radius float32
	Arc    float32
}

// Generate implements Generator.
func (c *Circle) Generate(opts Options) Shape {
	arc := c.Arc
	if arc <= 0 {
		arc = 360
	}
	var frac float32
	if opts.BurstCount > 0 {
		frac = float32(opts.BurstIndex) / float32(opts.BurstCount)
	} else {
		frac = c.float()
	}
	theta := float64(mgl32.DegToRad(arc * frac))
	dir := mgl32.Vec3{float32(math.Cos(theta)), float32(math.Sin(theta)), 0}
	return Shape{Position: dir.Mul(c.Radius), Direction: dir}
}

// NewFromConfig builds the generator described by an authored shape block.
// An empty type yields a Point.
func NewFromConfig(cfg particle.ShapeConfig, rng *rand.Rand) (Generator, error) {
	base := Base{Align: cfg.AlignSpeedDirection, Rand: rng}
	if cfg.UpDirection != nil {
		up := mgl32.Vec3(*cfg.UpDirection)
		base.Up = &up
	}
	radius := float32(cfg.Radius)

	switch strings.ToLower(cfg.Type) {
	case "", "none", "point":
		return &Point{Base: base}, nil
	case "sphere":
		return &Sphere{Base: base, Radius: radius}, nil
	case "hemisphere":
		return &Hemisphere{Base: base, Radius: radius}, nil
	case "cone":
		return &Cone{Base: base, Radius: radius, Angle: float32(cfg.Angle)}, nil
	case "circle":
		return &Circle{Base: base, Radius: radius, Arc: float32(cfg.Arc)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, cfg.Type)
	}
}

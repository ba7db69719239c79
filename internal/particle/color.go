package particle

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ColorGetter is an RGBA curve sampled by normalized lifetime.
type ColorGetter interface {
	GetValue(t float64) mgl32.Vec4
}

// ConstantColor returns the same color for every t.
type ConstantColor mgl32.Vec4

// GetValue implements ColorGetter.
func (c ConstantColor) GetValue(float64) mgl32.Vec4 { return mgl32.Vec4(c) }

// White is the default particle color.
var White = ConstantColor{1, 1, 1, 1}

// GradientStop is one color stop of a Gradient.
type GradientStop struct {
	Time  float64
	Color mgl32.Vec4
}

// Gradient linearly interpolates between sorted color stops.
type Gradient struct {
	Stops []GradientStop
}

// GetValue implements ColorGetter.
func (g *Gradient) GetValue(t float64) mgl32.Vec4 {
	if len(g.Stops) == 0 {
		return mgl32.Vec4{1, 1, 1, 1}
	}
	t = clamp01(t)
	if t <= g.Stops[0].Time {
		return g.Stops[0].Color
	}
	for i := 0; i < len(g.Stops)-1; i++ {
		s0, s1 := g.Stops[i], g.Stops[i+1]
		if t > s1.Time {
			continue
		}
		span := s1.Time - s0.Time
		if span <= 0 {
			return s1.Color
		}
		r := float32((t - s0.Time) / span)
		return s0.Color.Add(s1.Color.Sub(s0.Color).Mul(r))
	}
	return g.Stops[len(g.Stops)-1].Color
}

// ParseColor parses an authored color.
//
// Accepted forms:
//   - "#rrggbb" or "#rrggbbaa"
//   - "r g b" or "r g b a" with 0-1 channels (alpha defaults to 1)
//   - "0:#ff0000 1:#0000ff" gradient stops ("time:color")
//
// An empty string returns (nil, nil).
func ParseColor(s string) (ColorGetter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.Contains(s, ":") {
		return parseGradient(s)
	}
	c, err := parseColorLiteral(s)
	if err != nil {
		return nil, err
	}
	return ConstantColor(c), nil
}

func parseGradient(s string) (*Gradient, error) {
	g := &Gradient{}
	for _, part := range strings.Fields(s) {
		ts, cs, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("%w: gradient stop %q", ErrInvalidValue, part)
		}
		t, err := strconv.ParseFloat(ts, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: gradient time %q", ErrInvalidValue, ts)
		}
		c, err := parseColorLiteral(cs)
		if err != nil {
			return nil, err
		}
		g.Stops = append(g.Stops, GradientStop{Time: t, Color: c})
	}
	sort.SliceStable(g.Stops, func(i, j int) bool { return g.Stops[i].Time < g.Stops[j].Time })
	return g, nil
}

func parseColorLiteral(s string) (mgl32.Vec4, error) {
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 && len(hex) != 8 {
			return mgl32.Vec4{}, fmt.Errorf("%w: color %q", ErrInvalidValue, s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return mgl32.Vec4{}, fmt.Errorf("%w: color %q", ErrInvalidValue, s)
		}
		if len(hex) == 6 {
			v = v<<8 | 0xff
		}
		return mgl32.Vec4{
			float32(v>>24&0xff) / 255,
			float32(v>>16&0xff) / 255,
			float32(v>>8&0xff) / 255,
			float32(v&0xff) / 255,
		}, nil
	}

	fields := strings.Fields(s)
	if len(fields) != 3 && len(fields) != 4 {
		return mgl32.Vec4{}, fmt.Errorf("%w: color %q", ErrInvalidValue, s)
	}
	c := mgl32.Vec4{1, 1, 1, 1}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) {
			return mgl32.Vec4{}, fmt.Errorf("%w: color channel %q", ErrInvalidValue, f)
		}
		c[i] = float32(v)
	}
	return c, nil
}

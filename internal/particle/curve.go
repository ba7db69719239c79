package particle

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidValue is returned when a value string cannot be turned into a curve.
var ErrInvalidValue = errors.New("invalid value string")

// ValueGetter is a scalar curve sampled by normalized lifetime.
//
// GetValue samples the curve at t in [0, 1]. GetIntegrateValue integrates the
// curve over elapsed time: the integral of v(x/duration) dx for x from from
// to to. Implementations used as burst counts must not depend on call order.
type ValueGetter interface {
	GetValue(t float64) float64
	GetIntegrateValue(from, to, duration float64) float64
}

// Constant is a curve with the same value everywhere.
type Constant float64

// GetValue implements ValueGetter.
func (c Constant) GetValue(float64) float64 { return float64(c) }

// GetIntegrateValue implements ValueGetter.
func (c Constant) GetIntegrateValue(from, to, _ float64) float64 {
	return float64(c) * (to - from)
}

// RandomRange draws a uniform value in [Min, Max] on every GetValue call.
// Rand is optional; the package-level source is used when nil.
type RandomRange struct {
	Min, Max float64
	Rand     *rand.Rand
}

// GetValue implements ValueGetter.
func (r *RandomRange) GetValue(float64) float64 {
	if r.Min >= r.Max {
		return r.Min
	}
	if r.Rand != nil {
		return r.Min + r.Rand.Float64()*(r.Max-r.Min)
	}
	return RandomInRange(r.Min, r.Max)
}

// GetIntegrateValue treats one random draw as constant over the interval.
func (r *RandomRange) GetIntegrateValue(from, to, _ float64) float64 {
	return r.GetValue(0) * (to - from)
}

// KeyframeCurve interpolates sorted keyframes.
type KeyframeCurve struct {
	Keyframes     []Keyframe
	Interpolation string
}

// NewKeyframeCurve copies and sorts keyframes into a curve.
func NewKeyframeCurve(keyframes []Keyframe, interpolation string) *KeyframeCurve {
	kf := append([]Keyframe(nil), keyframes...)
	sortKeyframes(kf)
	return &KeyframeCurve{Keyframes: kf, Interpolation: interpolation}
}

// GetValue implements ValueGetter.
func (k *KeyframeCurve) GetValue(t float64) float64 {
	return EvaluateKeyframes(k.Keyframes, t, k.Interpolation)
}

// GetIntegrateValue implements ValueGetter.
//
// The curve is a polynomial of degree ≤ 3 between consecutive breakpoints
// (keyframe times and the 0/1 clamp edges), so one Simpson step per piece is
// exact.
func (k *KeyframeCurve) GetIntegrateValue(from, to, duration float64) float64 {
	if duration <= 0 || from == to {
		return 0
	}
	sign := 1.0
	if to < from {
		from, to = to, from
		sign = -1
	}
	a, b := from/duration, to/duration

	breaks := []float64{a, b}
	for _, edge := range []float64{0, 1} {
		if edge > a && edge < b {
			breaks = append(breaks, edge)
		}
	}
	for _, kf := range k.Keyframes {
		if kf.Time > a && kf.Time < b {
			breaks = append(breaks, kf.Time)
		}
	}
	sort.Float64s(breaks)

	sum := 0.0
	for i := 0; i < len(breaks)-1; i++ {
		sum += simpson(k.GetValue, breaks[i], breaks[i+1])
	}
	return sign * sum * duration
}

func simpson(f func(float64) float64, a, b float64) float64 {
	if b <= a {
		return 0
	}
	m := (a + b) / 2
	return (b - a) / 6 * (f(a) + 4*f(m) + f(b))
}

// integrateNumeric integrates f over normalized [from/duration, to/duration]
// with composite Simpson steps and scales back to elapsed time.
func integrateNumeric(f func(float64) float64, from, to, duration float64, steps int) float64 {
	if duration <= 0 || from == to {
		return 0
	}
	sign := 1.0
	if to < from {
		from, to = to, from
		sign = -1
	}
	a, b := from/duration, to/duration
	h := (b - a) / float64(steps)
	sum := 0.0
	for i := 0; i < steps; i++ {
		sum += simpson(f, a+float64(i)*h, a+float64(i+1)*h)
	}
	return sign * sum * duration
}

// ParseCurve converts a value string into a ValueGetter.
//
// An empty string returns (nil, nil) so callers can apply their own default.
// Strings prefixed with "expr:" compile into a ScriptCurve.
func ParseCurve(s string) (ValueGetter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if src, ok := strings.CutPrefix(s, ScriptPrefix); ok {
		return NewScriptCurve(src)
	}

	lo, hi, kf, interp := ParseValue(s)
	switch {
	case len(kf) > 0 && (lo != 0 || hi != 0):
		// range start decaying through keyframes
		start := RandomInRange(lo, hi)
		if kf[0].Time > 0 {
			kf = append([]Keyframe{{Time: 0, Value: start}}, kf...)
		}
		return NewKeyframeCurve(kf, interp), nil
	case len(kf) > 0:
		return NewKeyframeCurve(kf, interp), nil
	case lo == 0 && hi == 0:
		if !isZeroLiteral(s) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidValue, s)
		}
		return Constant(0), nil
	case lo == hi:
		return Constant(lo), nil
	default:
		if lo > hi {
			lo, hi = hi, lo
		}
		return &RandomRange{Min: lo, Max: hi}, nil
	}
}

func isZeroLiteral(s string) bool {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	for _, f := range strings.Fields(s) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v != 0 {
			return false
		}
	}
	return len(strings.Fields(s)) > 0
}

// MustParseCurve is ParseCurve for literals known to be valid; it falls back
// to Constant(0) on error.
func MustParseCurve(s string) ValueGetter {
	c, err := ParseCurve(s)
	if err != nil || c == nil {
		return Constant(0)
	}
	return c
}

// clamp01 guards curve inputs that arrive slightly outside [0, 1].
func clamp01(t float64) float64 {
	if math.IsNaN(t) {
		return 0
	}
	return math.Max(0, math.Min(1, t))
}

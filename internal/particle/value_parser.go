// Package particle provides the value-curve collaborator used by the particle
// simulation and the data structures for authored effect files.
//
// Authored values are strings in a compact grammar:
//   - Fixed value: "1500"
//   - Range: "[0.7 0.9]" (random value between min and max)
//   - Double range: "[0.4 0.6] [0.8 1.2]" (random start and end, linear between)
//   - Keyframes: "0,2 0.5,2 1,21" (time,value pairs, time normalised to 0-1)
//   - Interpolation: "Linear 0,1 1,0" (Linear, EaseIn, EaseOut, FastInOutWeak)
//   - Range with decay: "[-720 720] 0,40" (random start, value,timePercent pairs)
//   - Expression: "expr: 1 - t*t" (Lua expression in t, see ScriptCurve)
package particle

import (
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// Keyframe represents a single keyframe in an animation curve.
type Keyframe struct {
	Time  float64 // Normalized time (0-1)
	Value float64 // Value at this keyframe
}

// Interpolation modes understood by EvaluateKeyframes.
const (
	InterpLinear        = "Linear"
	InterpEaseIn        = "EaseIn"
	InterpEaseOut       = "EaseOut"
	InterpFastInOutWeak = "FastInOutWeak"
)

var interpolationKeywords = []string{InterpLinear, InterpEaseIn, InterpEaseOut, InterpFastInOutWeak}

// ParseValue parses a value string from an effect file.
//
// Returns:
//   - min, max: Range values (if not keyframes)
//   - keyframes: Parsed keyframe array (if keyframes format), sorted by time
//   - interpolation: Interpolation mode ("Linear", "EaseIn", etc.)
//
// Unparseable input yields zeros, matching how missing fields behave.
func ParseValue(s string) (min, max float64, keyframes []Keyframe, interpolation string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil, ""
	}

	if strings.HasPrefix(s, "[") {
		closeIdx := strings.Index(s, "]")
		if closeIdx > 0 && closeIdx < len(s)-1 {
			rest := strings.TrimSpace(s[closeIdx+1:])
			if strings.HasPrefix(rest, "[") {
				if kf, ok := parseDoubleRange(s[:closeIdx+1], rest); ok {
					return 0, 0, kf, InterpLinear
				}
				return 0, 0, nil, ""
			}
			if lo, hi, ok := parseRange(s[:closeIdx+1]); ok {
				return lo, hi, parseDecayPairs(rest), ""
			}
			return 0, 0, nil, ""
		}
		if lo, hi, ok := parseRange(s); ok {
			return lo, hi, nil, ""
		}
		return 0, 0, nil, ""
	}

	for _, keyword := range interpolationKeywords {
		if strings.Contains(s, keyword) {
			interpolation = keyword
			s = strings.TrimSpace(strings.ReplaceAll(s, keyword, ""))
			break
		}
	}

	if strings.Contains(s, ",") || interpolation != "" {
		if kf := parseKeyframes(s); len(kf) > 0 {
			return 0, 0, kf, interpolation
		}
	}

	if value, err := strconv.ParseFloat(s, 64); err == nil {
		return value, value, nil, ""
	}
	return 0, 0, nil, ""
}

// parseRange parses "[min max]" or "[value]".
func parseRange(s string) (lo, hi float64, ok bool) {
	s = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "["), "]")
	parts := strings.Fields(s)
	switch len(parts) {
	case 1:
		v, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, 0, false
		}
		return v, v, true
	case 2:
		a, err1 := strconv.ParseFloat(parts[0], 64)
		b, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return a, b, true
	}
	return 0, 0, false
}

// parseDoubleRange turns "[a b] [c d]" into a two-keyframe ramp with random
// endpoints drawn once at parse time.
func parseDoubleRange(first, second string) ([]Keyframe, bool) {
	startMin, startMax, ok1 := parseRange(first)
	endMin, endMax, ok2 := parseRange(second)
	if !ok1 || !ok2 {
		return nil, false
	}
	return []Keyframe{
		{Time: 0, Value: RandomInRange(startMin, startMax)},
		{Time: 1, Value: RandomInRange(endMin, endMax)},
	}, true
}

// parseDecayPairs parses the "value,timePercent" pairs that follow a range.
// Times above 1 are percentages.
func parseDecayPairs(s string) []Keyframe {
	var kf []Keyframe
	for _, part := range strings.Fields(s) {
		pair := strings.Split(part, ",")
		if len(pair) != 2 {
			continue
		}
		val, err1 := strconv.ParseFloat(pair[0], 64)
		tp, err2 := strconv.ParseFloat(pair[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if tp > 1 {
			tp /= 100
		}
		kf = append(kf, Keyframe{Time: tp, Value: val})
	}
	sortKeyframes(kf)
	return kf
}

// parseKeyframes parses "time,value" pairs, an optional leading initial value
// and the "initial,timePercent final" shorthand.
func parseKeyframes(s string) []Keyframe {
	parts := strings.Fields(s)
	keyframes := make([]Keyframe, 0, len(parts)+1)
	hasInitial := false

	for i := 0; i < len(parts); i++ {
		part := parts[i]
		if !strings.Contains(part, ",") {
			v, err := strconv.ParseFloat(part, 64)
			if err == nil && len(keyframes) == 0 && !hasInitial {
				hasInitial = true
				keyframes = append(keyframes, Keyframe{Time: 0, Value: v})
			}
			continue
		}

		pair := strings.Split(part, ",")
		if len(pair) != 2 {
			continue
		}
		a, err1 := strconv.ParseFloat(pair[0], 64)
		b, err2 := strconv.ParseFloat(pair[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}

		// "initial,timePercent final"
		if b > 1 && i+1 < len(parts) && !strings.Contains(parts[i+1], ",") {
			if final, err := strconv.ParseFloat(parts[i+1], 64); err == nil {
				keyframes = append(keyframes,
					Keyframe{Time: 0, Value: a},
					Keyframe{Time: b / 100, Value: final},
				)
				i++
				continue
			}
		}

		// "value,timePercent" after an initial value
		if hasInitial && b > 1 {
			keyframes = append(keyframes, Keyframe{Time: b / 100, Value: a})
			continue
		}

		keyframes = append(keyframes, Keyframe{Time: a, Value: b})
	}

	sortKeyframes(keyframes)
	return keyframes
}

func sortKeyframes(kf []Keyframe) {
	sort.SliceStable(kf, func(i, j int) bool { return kf[i].Time < kf[j].Time })
}

// EvaluateKeyframes calculates the interpolated value at time t (0-1).
//
// Parameters:
//   - keyframes: Array of keyframes (must be sorted by Time)
//   - t: Normalized time, clamped to 0-1
//   - interpolation: Interpolation mode ("Linear", "EaseIn", etc.)
func EvaluateKeyframes(keyframes []Keyframe, t float64, interpolation string) float64 {
	if len(keyframes) == 0 {
		return 0
	}
	if len(keyframes) == 1 {
		return keyframes[0].Value
	}

	t = math.Max(0, math.Min(1, t))
	if t <= keyframes[0].Time {
		return keyframes[0].Value
	}

	for i := 0; i < len(keyframes)-1; i++ {
		k0 := keyframes[i]
		k1 := keyframes[i+1]
		if t < k0.Time || t > k1.Time {
			continue
		}
		span := k1.Time - k0.Time
		if span <= 0 {
			return k1.Value
		}
		ratio := ease((t-k0.Time)/span, interpolation)
		return k0.Value + ratio*(k1.Value-k0.Value)
	}

	return keyframes[len(keyframes)-1].Value
}

// ease remaps a 0-1 ratio. Every mode is a polynomial of degree ≤ 3, which
// keeps Simpson integration of keyframe curves exact.
func ease(ratio float64, interpolation string) float64 {
	switch interpolation {
	case InterpEaseIn:
		return ratio * ratio
	case InterpEaseOut:
		return 1 - (1-ratio)*(1-ratio)
	case InterpFastInOutWeak:
		return ratio * ratio * (3 - 2*ratio)
	default:
		return ratio
	}
}

// RandomInRange returns a random float64 in the range [min, max].
func RandomInRange(min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + rand.Float64()*(max-min)
}

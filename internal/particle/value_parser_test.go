package particle

import (
	"math"
	"testing"
)

// TestParseValue_FixedValue tests parsing of fixed value format
func TestParseValue_FixedValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMin float64
		wantMax float64
	}{
		{"Integer", "1500", 1500, 1500},
		{"Float", "3.14", 3.14, 3.14},
		{"Negative", "-10.5", -10.5, -10.5},
		{"Zero", "0", 0, 0},
		{"Bracketed single", "[7]", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max, keyframes, interp := ParseValue(tt.input)
			if min != tt.wantMin || max != tt.wantMax {
				t.Errorf("ParseValue(%q) = (%v, %v), want (%v, %v)", tt.input, min, max, tt.wantMin, tt.wantMax)
			}
			if keyframes != nil {
				t.Errorf("ParseValue(%q) keyframes = %v, want nil", tt.input, keyframes)
			}
			if interp != "" {
				t.Errorf("ParseValue(%q) interpolation = %q, want empty", tt.input, interp)
			}
		})
	}
}

// TestParseValue_Range tests parsing of range format
func TestParseValue_Range(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMin float64
		wantMax float64
	}{
		{"Float range", "[0.7 0.9]", 0.7, 0.9},
		{"Integer range", "[10 20]", 10, 20},
		{"Negative range", "[-5 -2]", -5, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max, keyframes, _ := ParseValue(tt.input)
			if min != tt.wantMin || max != tt.wantMax {
				t.Errorf("ParseValue(%q) = (%v, %v), want (%v, %v)", tt.input, min, max, tt.wantMin, tt.wantMax)
			}
			if keyframes != nil {
				t.Errorf("ParseValue(%q) should not return keyframes", tt.input)
			}
		})
	}
}

// TestParseValue_Keyframes tests time,value pairs and their ordering
func TestParseValue_Keyframes(t *testing.T) {
	_, _, kf, interp := ParseValue("1,21 0,2 0.5,2")
	if interp != "" {
		t.Errorf("interpolation = %q, want empty", interp)
	}
	want := []Keyframe{{0, 2}, {0.5, 2}, {1, 21}}
	if len(kf) != len(want) {
		t.Fatalf("keyframes = %v, want %v", kf, want)
	}
	for i := range want {
		if kf[i] != want[i] {
			t.Errorf("keyframe %d = %v, want %v", i, kf[i], want[i])
		}
	}
}

// TestParseValue_Interpolation tests interpolation keywords
func TestParseValue_Interpolation(t *testing.T) {
	for _, keyword := range []string{InterpLinear, InterpEaseIn, InterpEaseOut, InterpFastInOutWeak} {
		t.Run(keyword, func(t *testing.T) {
			_, _, kf, interp := ParseValue(keyword + " 0,1 1,0")
			if interp != keyword {
				t.Errorf("interpolation = %q, want %q", interp, keyword)
			}
			if len(kf) != 2 {
				t.Errorf("got %d keyframes, want 2", len(kf))
			}
		})
	}
}

// TestParseValue_InitialWithPercent tests the "initial,timePercent final" shorthand
func TestParseValue_InitialWithPercent(t *testing.T) {
	_, _, kf, _ := ParseValue(".9,70 0")
	if len(kf) != 2 {
		t.Fatalf("keyframes = %v, want 2 entries", kf)
	}
	if kf[0] != (Keyframe{0, 0.9}) {
		t.Errorf("first keyframe = %v, want {0 0.9}", kf[0])
	}
	if math.Abs(kf[1].Time-0.7) > 1e-9 || kf[1].Value != 0 {
		t.Errorf("second keyframe = %v, want {0.7 0}", kf[1])
	}
}

// TestParseValue_RangeWithDecay tests "[min max] value,timePercent"
func TestParseValue_RangeWithDecay(t *testing.T) {
	min, max, kf, _ := ParseValue("[-720 720] 0,40")
	if min != -720 || max != 720 {
		t.Errorf("range = (%v, %v), want (-720, 720)", min, max)
	}
	if len(kf) != 1 || math.Abs(kf[0].Time-0.4) > 1e-9 || kf[0].Value != 0 {
		t.Errorf("keyframes = %v, want [{0.4 0}]", kf)
	}
}

// TestParseValue_DoubleRange tests "[a b] [c d]" producing a two-point ramp
func TestParseValue_DoubleRange(t *testing.T) {
	_, _, kf, interp := ParseValue("[0.4 0.6] [0.8 1.2]")
	if interp != InterpLinear {
		t.Errorf("interpolation = %q, want Linear", interp)
	}
	if len(kf) != 2 {
		t.Fatalf("keyframes = %v, want 2 entries", kf)
	}
	if kf[0].Value < 0.4 || kf[0].Value > 0.6 {
		t.Errorf("start value %v outside [0.4, 0.6]", kf[0].Value)
	}
	if kf[1].Value < 0.8 || kf[1].Value > 1.2 {
		t.Errorf("end value %v outside [0.8, 1.2]", kf[1].Value)
	}
}

// TestParseValue_EdgeCases tests empty and malformed strings
func TestParseValue_EdgeCases(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "[a b]", "[1 2 3]"} {
		min, max, kf, _ := ParseValue(input)
		if min != 0 || max != 0 || kf != nil {
			t.Errorf("ParseValue(%q) = (%v, %v, %v), want zeros", input, min, max, kf)
		}
	}
}

// TestEvaluateKeyframes_Linear tests linear interpolation and clamping
func TestEvaluateKeyframes_Linear(t *testing.T) {
	kf := []Keyframe{{0, 0}, {1, 10}}
	tests := []struct {
		t, want float64
	}{
		{-1, 0}, {0, 0}, {0.25, 2.5}, {0.5, 5}, {1, 10}, {2, 10},
	}
	for _, tt := range tests {
		if got := EvaluateKeyframes(kf, tt.t, InterpLinear); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("EvaluateKeyframes(t=%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

// TestEvaluateKeyframes_MultipleSegments tests values across several segments
func TestEvaluateKeyframes_MultipleSegments(t *testing.T) {
	kf := []Keyframe{{0, 0}, {0.5, 10}, {1, 0}}
	if got := EvaluateKeyframes(kf, 0.25, ""); math.Abs(got-5) > 1e-9 {
		t.Errorf("t=0.25: got %v, want 5", got)
	}
	if got := EvaluateKeyframes(kf, 0.75, ""); math.Abs(got-5) > 1e-9 {
		t.Errorf("t=0.75: got %v, want 5", got)
	}
}

// TestEvaluateKeyframes_Interpolations tests ease modes at the segment midpoint
func TestEvaluateKeyframes_Interpolations(t *testing.T) {
	kf := []Keyframe{{0, 0}, {1, 1}}
	tests := []struct {
		interp string
		want   float64
	}{
		{InterpLinear, 0.5},
		{InterpEaseIn, 0.25},
		{InterpEaseOut, 0.75},
		{InterpFastInOutWeak, 0.5},
	}
	for _, tt := range tests {
		if got := EvaluateKeyframes(kf, 0.5, tt.interp); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s at 0.5 = %v, want %v", tt.interp, got, tt.want)
		}
	}
}

// TestEvaluateKeyframes_Degenerate tests empty and single keyframe input
func TestEvaluateKeyframes_Degenerate(t *testing.T) {
	if got := EvaluateKeyframes(nil, 0.5, ""); got != 0 {
		t.Errorf("empty keyframes = %v, want 0", got)
	}
	if got := EvaluateKeyframes([]Keyframe{{0.3, 7}}, 0.9, ""); got != 7 {
		t.Errorf("single keyframe = %v, want 7", got)
	}
}

// TestRandomInRange tests bounds
func TestRandomInRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := RandomInRange(2, 3)
		if v < 2 || v > 3 {
			t.Fatalf("RandomInRange(2, 3) = %v", v)
		}
	}
	if v := RandomInRange(5, 1); v != 5 {
		t.Errorf("RandomInRange(5, 1) = %v, want 5", v)
	}
}

package particle

// EffectFile is the root of an authored effect file.
// A single file may contain several effects.
type EffectFile struct {
	Effects []EffectConfig `yaml:"effects"`
}

// EffectConfig describes one particle system as authored.
//
// Curve-valued fields are strings in the value grammar documented on the
// package (fixed, range, keyframes or "expr:" Lua expressions) and are parsed
// when the effect is instantiated.
type EffectConfig struct {
	// Name is the unique identifier for this effect
	Name string `yaml:"name"`

	// Lifecycle
	Duration    float64 `yaml:"duration"`              // Loop length in seconds
	EndBehavior string  `yaml:"endBehavior,omitempty"` // restart, freeze or destroy (default destroy)
	MaxCount    int     `yaml:"maxCount"`              // Pool capacity

	Particle     ParticleConfig      `yaml:"particle"`
	Emission     EmissionConfig      `yaml:"emission"`
	Shape        ShapeConfig         `yaml:"shape"`
	Trails       *TrailConfig        `yaml:"trails,omitempty"`
	ForceTarget  *ForceTargetConfig  `yaml:"forceTarget,omitempty"`
	TextureSheet *TextureSheetConfig `yaml:"textureSheet,omitempty"`
}

// ParticleConfig holds per-particle start values and over-lifetime modifiers.
type ParticleConfig struct {
	StartLifetime string `yaml:"startLifetime"`
	StartSpeed    string `yaml:"startSpeed,omitempty"`
	StartDelay    string `yaml:"startDelay,omitempty"`

	// Size: either uniform size with aspect (x / y), or independent axes
	StartSize   string `yaml:"startSize,omitempty"`
	SizeAspect  string `yaml:"sizeAspect,omitempty"`
	Start3DSize bool   `yaml:"start3DSize,omitempty"`
	StartSizeX  string `yaml:"startSizeX,omitempty"`
	StartSizeY  string `yaml:"startSizeY,omitempty"`

	// Rotation in degrees: Z only, or all three axes
	StartRotation   string `yaml:"startRotation,omitempty"`
	Start3DRotation bool   `yaml:"start3DRotation,omitempty"`
	StartRotationX  string `yaml:"startRotationX,omitempty"`
	StartRotationY  string `yaml:"startRotationY,omitempty"`
	StartRotationZ  string `yaml:"startRotationZ,omitempty"`

	StartColor string `yaml:"startColor,omitempty"` // "#rrggbb", "r g b a" or gradient stops

	Gravity           [3]float32            `yaml:"gravity,omitempty"`
	GravityModifier   string                `yaml:"gravityModifier,omitempty"`
	SpeedOverLifetime string                `yaml:"speedOverLifetime,omitempty"`
	LinearVelocity    *LinearVelocityConfig `yaml:"linearVelocity,omitempty"`

	// FollowParent keeps particles in emitter space instead of world space
	FollowParent bool `yaml:"followParent,omitempty"`
}

// LinearVelocityConfig adds per-axis velocity over lifetime.
// With AsMovement the curves are offsets instead of velocities.
type LinearVelocityConfig struct {
	X          string `yaml:"x,omitempty"`
	Y          string `yaml:"y,omitempty"`
	Z          string `yaml:"z,omitempty"`
	AsMovement bool   `yaml:"asMovement,omitempty"`
}

// EmissionConfig controls continuous and burst emission.
type EmissionConfig struct {
	RateOverTime string        `yaml:"rateOverTime,omitempty"` // Particles per second
	Bursts       []BurstConfig `yaml:"bursts,omitempty"`
}

// BurstConfig is one authored burst.
type BurstConfig struct {
	Time        float64      `yaml:"time"`
	Interval    float64      `yaml:"interval"`
	Count       string       `yaml:"count"`
	Cycles      int          `yaml:"cycles"`
	Probability *float64     `yaml:"probability,omitempty"` // Default 1
	Once        bool         `yaml:"once,omitempty"`
	Offsets     [][3]float32 `yaml:"offsets,omitempty"` // Positional offset per cycle index
}

// ShapeConfig selects the spawn shape generator.
type ShapeConfig struct {
	Type                string      `yaml:"type"`             // none, sphere, hemisphere, cone, circle
	Radius              float64     `yaml:"radius,omitempty"` // Spawn radius
	Angle               float64     `yaml:"angle,omitempty"`  // Cone half-angle in degrees
	Arc                 float64     `yaml:"arc,omitempty"`    // Circle arc in degrees (default 360)
	AlignSpeedDirection bool        `yaml:"alignSpeedDirection,omitempty"`
	UpDirection         *[3]float32 `yaml:"upDirection,omitempty"`
}

// TrailConfig enables per-particle trails.
type TrailConfig struct {
	Lifetime              string `yaml:"lifetime"`
	MaxPoints             int    `yaml:"maxPoints,omitempty"`
	SizeAffectsWidth      bool   `yaml:"sizeAffectsWidth,omitempty"`
	SizeAffectsLifetime   bool   `yaml:"sizeAffectsLifetime,omitempty"`
	ParentAffectsPosition bool   `yaml:"parentAffectsPosition,omitempty"`
	InheritParticleColor  bool   `yaml:"inheritParticleColor,omitempty"`
}

// ForceTargetConfig pulls particles toward a point over their lifetime.
type ForceTargetConfig struct {
	Target [3]float32 `yaml:"target"`
	Curve  string     `yaml:"curve"`
}

// TextureSheetConfig samples sprite-sheet animation state at spawn.
type TextureSheetConfig struct {
	Animate  bool   `yaml:"animate"`
	Col      int    `yaml:"col,omitempty"`
	Row      int    `yaml:"row,omitempty"`
	Total    int    `yaml:"total,omitempty"`
	Delay    string `yaml:"delay,omitempty"`
	Duration string `yaml:"duration,omitempty"`
	Cycles   string `yaml:"cycles,omitempty"`
}

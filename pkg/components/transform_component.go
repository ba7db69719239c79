package components

import "github.com/go-gl/mathgl/mgl32"

// TransformComponent places an entity in world space.
// Rotation is Euler degrees; a zero Scale means unit scale.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

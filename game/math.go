package game

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	WorldUp      = mgl64.Vec3{0, 0, 1}
	WorldForward = mgl64.Vec3{1, 0, 0}
)

// Round32 will round a float32 to a given precision.
func Round32(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// Round64 will round a float64 to a given precision.
func Round64(val float64, precision int) float64 {
	pwr := math.Pow(10, float64(precision))
	return math.Round(val*pwr) / pwr
}

// Vec32To64 converts a 32-bit vector to a 64-bit one.
func Vec32To64(vec3 mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(vec3[0]), float64(vec3[1]), float64(vec3[2])}
}

// Vec64To32 converts a 64-bit vector to a 32-bit one.
func Vec64To32(vec3 mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(vec3[0]), float32(vec3[1]), float32(vec3[2])}
}

// Quantize10 rounds every component of the vector to one decimal place and narrows it to
// 32 bits. Input acceleration goes through this before a move is simulated so that the
// client and server integrate exactly the same value.
func Quantize10(v mgl64.Vec3) mgl32.Vec3 {
	v32 := Vec64To32(v)
	return mgl32.Vec3{Round32(v32[0], 1), Round32(v32[1], 1), Round32(v32[2], 1)}
}

// QuantizeVec10 is Quantize10 widened back to 64 bits.
func QuantizeVec10(v mgl64.Vec3) mgl64.Vec3 {
	return Vec32To64(Quantize10(v))
}

// DirectionVector returns a unit direction vector from the given yaw and pitch values in
// degrees. A pitch of zero faces along the horizon.
func DirectionVector(yaw, pitch float64) mgl64.Vec3 {
	yawRad, pitchRad := mgl64.DegToRad(yaw), mgl64.DegToRad(pitch)
	m := math.Cos(pitchRad)
	return mgl64.Vec3{m * math.Cos(yawRad), m * math.Sin(yawRad), math.Sin(pitchRad)}
}

// SafeNormal returns the normalized vector, or a zero vector if it is too short to
// normalize.
func SafeNormal(v mgl64.Vec3) mgl64.Vec3 {
	lenSqr := v.LenSqr()
	if lenSqr < SmallNumber {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / math.Sqrt(lenSqr))
}

// IsNearlyZero returns true if every component of the vector is within tolerance of zero.
func IsNearlyZero(v mgl64.Vec3, tolerance float64) bool {
	return math.Abs(v[0]) <= tolerance && math.Abs(v[1]) <= tolerance && math.Abs(v[2]) <= tolerance
}

// ProjectOnPlane removes the component of v along the plane normal.
func ProjectOnPlane(v, normal mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(normal.Mul(v.Dot(normal)))
}

// ClampLen limits the length of v to maxLen.
func ClampLen(v mgl64.Vec3, maxLen float64) mgl64.Vec3 {
	if maxLen <= 0 {
		return mgl64.Vec3{}
	}
	if l := v.Len(); l > maxLen {
		return v.Mul(maxLen / l)
	}
	return v
}

// QuatFromZX builds a rotation whose local Z axis is exactly z and whose local X axis is as
// close to x as possible while staying orthogonal to z. If x is zero or parallel to z, a
// fallback axis is used.
func QuatFromZX(z, x mgl64.Vec3) mgl64.Quat {
	newZ := SafeNormal(z)
	norm := SafeNormal(x)
	if norm.LenSqr() < SmallNumber || math.Abs(newZ.Dot(norm)) > 1-KindaSmallNumber {
		if math.Abs(newZ.Z()) < 1-KindaSmallNumber {
			norm = WorldUp
		} else {
			norm = WorldForward
		}
	}
	newY := SafeNormal(newZ.Cross(norm))
	newX := newY.Cross(newZ)
	m := mgl64.Mat4FromCols(newX.Vec4(0), newY.Vec4(0), newZ.Vec4(0), mgl64.Vec4{0, 0, 0, 1})
	return mgl64.Mat4ToQuat(m).Normalize()
}

// YawQuat returns a rotation of yaw degrees around world up.
func YawQuat(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(yaw), WorldUp)
}

// AngularDistance returns the angle in radians between two rotations.
func AngularDistance(a, b mgl64.Quat) float64 {
	inner := a.Dot(b)
	return math.Acos(mgl64.Clamp(2*inner*inner-1, -1, 1))
}

// QInterpConstantTo moves current towards target at a constant angular speed in radians
// per second. It never overshoots.
func QInterpConstantTo(current, target mgl64.Quat, dt, speed float64) mgl64.Quat {
	if speed <= 0 {
		return target
	}
	if current.Dot(target) < 0 {
		target = target.Scale(-1)
	}
	dist := math.Max(SmallNumber, AngularDistance(current, target))
	if dist <= KindaSmallNumber {
		return target.Normalize()
	}
	alpha := mgl64.Clamp(speed*dt/dist, 0, 1)
	return mgl64.QuatSlerp(current, target, alpha).Normalize()
}

package game

// Units are centimetres and seconds, with Z pointing up.
const (
	// MinTickTime is the smallest step the simulator will integrate. Anything smaller is
	// dropped without touching the movement state.
	MinTickTime = 1e-6
	// MaxSimulationTimeStep is the largest step a single physics iteration may take.
	MaxSimulationTimeStep = 0.05
	// MaxSimulationIterations caps how many times StartNewPhysics may re-dispatch
	// within one tick.
	MaxSimulationIterations = 8

	SmallNumber      = 1e-8
	KindaSmallNumber = 1e-4

	DefaultGravityZ = -980.0

	// WalkableFloorZ is the minimum Z component of a surface normal that can be stood on.
	WalkableFloorZ = 0.71
	MaxStepHeight  = 45.0
	MaxFloorDist   = 2.4
	MinFloorDist   = 1.9
	// SweepSkin is how far a sweep stops short of the surface it hits.
	SweepSkin = 0.1

	DefaultFluidFriction = 0.3
	WaterFluidFriction   = 2.0

	MaxWalkSpeed               = 600.0
	MaxSwimSpeed               = 300.0
	MaxFlySpeed                = 600.0
	MaxAcceleration            = 2048.0
	GroundFriction             = 8.0
	BrakingDecelerationWalking = 2048.0
	BrakingFrictionFactor      = 2.0
	BrakingSubStepTime         = 1.0 / 33.0
	AirControl                 = 0.05

	// GlideRotationRate is the constant angular speed, in radians per second, at which a
	// gliding character turns towards its velocity.
	GlideRotationRate = 50.0
)

// Default glide tuning.
const (
	DefaultGlideDownwardInfluence = 10.0
	DefaultGlideForwardInfluence  = 2.0
	DefaultGlideGravityInfluence  = 750.0
	DefaultGlideFrictionFactor    = 0.1
)

// Prediction and correction defaults.
const (
	MaxSmoothNetUpdateDist = 92.0
	NoSmoothNetUpdateDist  = 140.0
	SmoothNetUpdateTime    = 0.1

	MaxSavedMoveCount       = 96
	MaxMoveDeltaTime        = 0.125
	MaxPositionErrorSquared = 3.0

	// MoveDeltaTolerance is how far a move may overrun the client time elapsed since the
	// previous accepted move before the server clamps it.
	MoveDeltaTolerance = 1e-3
)

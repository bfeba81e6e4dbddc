package sim

import (
	"math"

	"github.com/vovakirdan/runtime-zero/internal/config"
	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/physics"
)

// Player hitbox sizes in pixels. Sliding keeps the bottom edge fixed.
const (
	PlayerWidth       = 24.0
	PlayerHeight      = 44.0
	PlayerSlideHeight = 30.0
)

const (
	slideEntryFraction = 0.6  // of walk speed
	slideEase          = 0.25 // per tick toward slide speed
	poundEase          = 0.45 // per tick toward zero horizontal speed
	dashLookAheadRatio = 1.02 // of walk speed
	lookAheadSmoothing = 0.12 // per 60 Hz frame
	maxRunFactor       = 1.25 // horizontal cap as a factor of run speed
)

// MotionMode is the mutually exclusive movement state of the player.
type MotionMode uint8

const (
	ModeNormal MotionMode = iota
	ModeSliding
	ModeGroundPounding
)

// String returns the snapshot name of the mode.
func (m MotionMode) String() string {
	switch m {
	case ModeSliding:
		return "sliding"
	case ModeGroundPounding:
		return "ground_pounding"
	default:
		return "normal"
	}
}

// ControlInput is the per-tick logical input the controller reads.
type ControlInput struct {
	Axis        float64 // -1, 0 or 1 after the horizontal sign scale
	JumpPressed bool
	JumpHeld    bool
	RunHeld     bool
	DownHeld    bool
	DownPressed bool
}

// ControlInputFrom maps an input frame to controller input. hscale
// mirrors the horizontal axis; zero is treated as +1.
func ControlInputFrom(in core.InputFrame, hscale float64) ControlInput {
	if hscale == 0 {
		hscale = 1
	}
	return ControlInput{
		Axis:        in.Axis() * core.Sign(hscale),
		JumpPressed: in.Has(core.ActionJump),
		JumpHeld:    in.IsHeld(core.ActionJump),
		RunHeld:     in.IsHeld(core.ActionRun),
		DownHeld:    in.IsHeld(core.ActionDown),
		DownPressed: in.Has(core.ActionDown),
	}
}

// Contacts are the collision facts the controller needs, sampled before
// the controller runs.
type Contacts struct {
	Grounded  bool
	WallLeft  bool
	WallRight bool
}

// ControlEvents reports what happened during one controller update.
type ControlEvents struct {
	Jumped     bool
	WallJumped bool
	Landed     bool
	Pounded    bool
	Slid       bool
}

// Controller owns the player body and the movement state machine.
type Controller struct {
	Body   physics.Body
	Mode   MotionMode
	Facing float64
	// Running is true while run is held with a direction.
	Running bool

	coyote      window
	jumpBuffer  window
	slideMs     float64
	poundLockMs float64
	controlLock float64
	wasGrounded bool
	lookAhead   float64
	// cuttable marks an ascent started by a jump. Only such an ascent is
	// shortened when jump is released.
	cuttable bool
}

// NewController places a standing player with its feet centered on spawn.
func NewController(spawn core.Vec2) *Controller {
	c := &Controller{}
	c.Reset(spawn)
	return c
}

// Reset puts the player back at spawn with no motion and default state.
// spawn is the bottom-center of the hitbox.
func (c *Controller) Reset(spawn core.Vec2) {
	*c = Controller{
		Body: physics.Body{
			Rect: core.NewRect(spawn.X-PlayerWidth/2, spawn.Y-PlayerHeight, PlayerWidth, PlayerHeight),
		},
		Facing: 1,
	}
}

// LookAhead is the smoothed camera look-ahead. It has no gameplay effect.
func (c *Controller) LookAhead() float64 {
	return c.lookAhead
}

// CoyoteMs returns the remaining coyote time.
func (c *Controller) CoyoteMs() float64 { return c.coyote.Remaining() }

// JumpBufferMs returns the remaining jump buffer time.
func (c *Controller) JumpBufferMs() float64 { return c.jumpBuffer.Remaining() }

// ControlLocked reports whether knockback currently suppresses input.
func (c *Controller) ControlLocked() bool { return c.controlLock > 0 }

// LockControl suppresses horizontal input and jumps for ms.
func (c *Controller) LockControl(ms float64) {
	c.controlLock = math.Max(c.controlLock, ms)
}

// Update runs one tick of the movement state machine. It changes velocity
// and hitbox only; gravity, zone forces and collision belong to the caller.
func (c *Controller) Update(in ControlInput, ct Contacts, t config.MovementTuning, dtMs float64) ControlEvents {
	var ev ControlEvents
	dt := dtMs / 1000
	grounded := ct.Grounded

	tick(&c.controlLock, dtMs)
	tick(&c.poundLockMs, dtMs)

	if grounded {
		c.cuttable = false
		c.coyote.arm(t.CoyoteTimeMs)
		if !c.wasGrounded {
			ev.Landed = true
		}
	} else {
		c.coyote.decay(dtMs)
	}

	if in.JumpPressed {
		c.jumpBuffer.arm(t.JumpBufferMs)
	} else {
		c.jumpBuffer.decay(dtMs)
	}

	if !grounded && in.DownPressed && c.Mode != ModeGroundPounding {
		c.startPound(t)
		ev.Pounded = true
	}

	if c.canSlide(in, grounded, t) {
		c.startSlide(t)
		ev.Slid = true
	}

	switch c.Mode {
	case ModeGroundPounding:
		c.updatePound(grounded, t)
	case ModeSliding:
		c.updateSlide(in, grounded, t, dtMs)
		c.faceVelocity()
	default:
		if c.controlLock <= 0 {
			c.updateHorizontal(in, grounded, t, dt)
		}
	}

	if c.poundLockMs <= 0 && c.controlLock <= 0 {
		ev.Jumped, ev.WallJumped = c.tryJump(ct, t)
	}

	if c.Body.Vel.Y >= 0 || c.Mode == ModeGroundPounding {
		c.cuttable = false
	}
	if c.cuttable && !in.JumpHeld && c.Body.Vel.Y < -t.JumpCutVelocity {
		c.Body.Vel.Y = -t.JumpCutVelocity
		c.cuttable = false
	}
	if c.Body.Vel.Y > t.MaxFallSpeed {
		c.Body.Vel.Y = t.MaxFallSpeed
	}

	c.updateLookAhead(t, dtMs)
	c.wasGrounded = grounded
	return ev
}

func (c *Controller) canSlide(in ControlInput, grounded bool, t config.MovementTuning) bool {
	if !grounded || c.Mode != ModeNormal {
		return false
	}
	if !in.RunHeld || !in.DownHeld {
		return false
	}
	return math.Abs(c.Body.Vel.X) > t.WalkSpeed*slideEntryFraction
}

func (c *Controller) startSlide(t config.MovementTuning) {
	if d := core.Sign(c.Body.Vel.X); d != 0 {
		c.Facing = d
	}
	c.Mode = ModeSliding
	c.Running = false
	c.slideMs = t.SlideDurationMs
	c.setHeight(PlayerSlideHeight)

	speed := math.Max(math.Abs(c.Body.Vel.X), t.SlideSpeed) + t.SlideEnterBoost
	c.Body.Vel.X = c.Facing * speed
}

func (c *Controller) endSlide() {
	if c.Mode != ModeSliding {
		return
	}
	c.Mode = ModeNormal
	c.slideMs = 0
	c.setHeight(PlayerHeight)
}

func (c *Controller) updateSlide(in ControlInput, grounded bool, t config.MovementTuning, dtMs float64) {
	if !grounded || !in.DownHeld {
		c.endSlide()
		return
	}
	tick(&c.slideMs, dtMs)
	c.Body.Vel.X = core.Linear(c.Body.Vel.X, c.Facing*t.SlideSpeed, slideEase)
	if c.slideMs <= 0 {
		c.endSlide()
	}
}

func (c *Controller) startPound(t config.MovementTuning) {
	c.endSlide()
	c.Mode = ModeGroundPounding
	c.Running = false
	c.Body.Vel.X = 0
	c.Body.Vel.Y = t.GroundPoundVelocity
}

// updatePound holds the dive until landing, then starts the post-land lock
// during which jumps are ignored.
func (c *Controller) updatePound(grounded bool, t config.MovementTuning) {
	if grounded {
		c.Mode = ModeNormal
		c.poundLockMs = t.GroundPoundLockMs
		return
	}
	c.Body.Vel.X = core.Linear(c.Body.Vel.X, 0, poundEase)
	if c.Body.Vel.Y < t.GroundPoundVelocity {
		c.Body.Vel.Y = t.GroundPoundVelocity
	}
}

func (c *Controller) updateHorizontal(in ControlInput, grounded bool, t config.MovementTuning, dt float64) {
	vx := c.Body.Vel.X
	c.Running = in.RunHeld && in.Axis != 0

	if in.Axis != 0 {
		c.Facing = core.Sign(in.Axis)
		speed := t.WalkSpeed
		if c.Running {
			speed = t.RunSpeed
		}
		accel := t.AirAcceleration
		if grounded {
			accel = t.GroundAcceleration
		}
		c.Body.Vel.X = core.MoveToward(vx, in.Axis*speed, accel*dt)
		return
	}

	decel := t.AirDeceleration
	if grounded {
		decel = t.GroundDeceleration
	}
	c.Body.Vel.X = core.MoveToward(vx, 0, decel*dt)
}

// tryJump consumes a live jump buffer when the player may jump. Wall jumps
// take priority while airborne.
func (c *Controller) tryJump(ct Contacts, t config.MovementTuning) (jumped, wall bool) {
	onWall := !ct.Grounded && (ct.WallLeft || ct.WallRight)
	if !c.jumpBuffer.live {
		return false, false
	}
	if !ct.Grounded && !c.coyote.live && !onWall {
		return false, false
	}

	if c.Mode == ModeGroundPounding {
		c.Mode = ModeNormal
	}
	c.poundLockMs = 0

	if onWall {
		away := -1.0
		if ct.WallLeft {
			away = 1
		}
		c.Body.Vel.X = away * t.WallJumpXVelocity
		c.Body.Vel.Y = -t.WallJumpYVelocity
		c.Facing = away
		wall = true
	} else {
		c.Body.Vel.Y = -t.JumpVelocity
	}

	c.endSlide()
	c.Running = false
	c.cuttable = true
	c.coyote.close()
	c.jumpBuffer.close()
	return true, wall
}

func (c *Controller) faceVelocity() {
	switch {
	case c.Body.Vel.X < -1:
		c.Facing = -1
	case c.Body.Vel.X > 1:
		c.Facing = 1
	}
}

// setHeight resizes the hitbox keeping the feet in place.
func (c *Controller) setHeight(h float64) {
	bottom := c.Body.Rect.Bottom()
	c.Body.Rect.H = h
	c.Body.Rect.Y = bottom - h
}

func (c *Controller) updateLookAhead(t config.MovementTuning, dtMs float64) {
	target := c.lookAheadTarget(t)
	k := math.Min(1, lookAheadSmoothing*dtMs/(1000.0/60.0))
	c.lookAhead += (target - c.lookAhead) * k
}

func (c *Controller) lookAheadTarget(t config.MovementTuning) float64 {
	vx := c.Body.Vel.X
	dash := c.Running || math.Abs(vx) > t.WalkSpeed*dashLookAheadRatio
	limit, base := t.CameraLookAhead, t.WalkSpeed
	if dash {
		limit, base = t.CameraLookAheadDash, t.RunSpeed
	}
	if base <= 0 {
		return 0
	}
	return core.ClampF(vx/base*limit, -limit, limit)
}

// CapVelocity applies the horizontal run cap and the fall speed cap.
func CapVelocity(v core.Vec2, t config.MovementTuning) core.Vec2 {
	maxX := t.RunSpeed * maxRunFactor
	v.X = core.ClampF(v.X, -maxX, maxX)
	v.Y = core.ClampF(v.Y, -t.MaxFallSpeed, t.MaxFallSpeed)
	return v
}

// Bounce launches the player upward at speed, ending a ground pound.
// Releasing jump does not shorten a bounce.
func (c *Controller) Bounce(speed float64) {
	if c.Mode == ModeGroundPounding {
		c.Mode = ModeNormal
	}
	c.poundLockMs = 0
	c.cuttable = false
	c.Body.Vel.Y = -speed
}

// Knockback replaces the velocity with an impulse and locks control.
func (c *Controller) Knockback(v core.Vec2, lockMs float64) {
	c.endSlide()
	c.Mode = ModeNormal
	c.Running = false
	c.cuttable = false
	c.Body.Vel = v
	c.LockControl(lockMs)
}

// Package sim is the per-frame platformer simulation: the player motion
// controller, the environmental force resolver, the entity interaction
// engine and the run session state machine.
//
// A Sim is single-threaded. Every state change happens inside Step and is
// complete before Step returns; stage load, respawn and run end only
// happen at tick boundaries.
package sim

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/runtime-zero/internal/config"
	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/physics"
	"github.com/vovakirdan/runtime-zero/internal/stage"
)

// Interaction constants.
const (
	FallMargin          = 80.0  // px below the stage before a fall counts
	MaxDeltaMs          = 50.0  // longer frames are clamped
	springThreshold     = 40.0  // min downward speed that triggers a spring
	stompThreshold      = 120.0 // min downward speed that counts as a stomp
	defaultSpringBounce = 900.0
	defaultPortCooldown = 600.0
	stompBounce         = 520.0
	poundBounce         = 420.0
	knockbackLift       = 0.6 // vertical share of the knockback impulse
	knockbackLockMs     = 180.0
	enemyBoundsMargin   = 80.0
)

// Collectible hitbox sizes.
const (
	gemSize   = 20.0
	cycleSize = 14.0
	itemSize  = 24.0
)

// Solid refs are grouped by platform kind.
const (
	refStatic     = 0
	refCollapsing = 1 << 16
	refMoving     = 2 << 16
)

type pickup[T any] struct {
	def   T
	rect  core.Rect
	taken bool
}

// StepResult is returned by Step.
type StepResult struct {
	Status Status
	// Result is set on the tick the run finishes.
	Result *RunResult
}

// Sim is one run of one stage.
type Sim struct {
	def        stage.Definition
	difficulty config.Difficulty
	mirror     bool
	tuning     TuningSource
	profile    config.DifficultyProfile
	hscale     float64
	collider   physics.Collider
	log        *log.Logger
	events     EventSink
	reporter   Reporter
	opts       Options

	runID    uuid.UUID
	player   *Controller
	progress *Progress
	forces   *ForceResolver
	spawn    core.Vec2

	enemies     []*Enemy
	shots       []*Projectile
	collapsers  []*collapser
	movers      []*mover
	gems        []pickup[stage.Gem]
	cycles      []pickup[stage.Cycle]
	items       []pickup[stage.Item]
	checkpoints []stage.SnappedCheckpoint

	portCooldownMs float64
	inWater        bool
	// fallSpeed and sweep describe the player's last move: vertical speed
	// before collision zeroed it, and the area covered from start to end.
	fallSpeed float64
	sweep     core.Rect
	tick      uint64
	paused    bool
	finished  bool
	result    *RunResult
}

// New builds a run from opts. The stage is mirrored when opts.Mirror is
// set; the caller's definition is never modified.
func New(opts Options) *Sim {
	opts = opts.withDefaults()
	def := *opts.Stage
	if opts.Mirror {
		def = def.Mirrored()
	}

	s := &Sim{
		def:        def,
		difficulty: opts.Difficulty,
		mirror:     opts.Mirror,
		tuning:     opts.Tuning,
		profile:    *opts.Profile,
		hscale:     opts.HorizontalScale,
		collider:   opts.Collider,
		events:     opts.Events,
		reporter:   opts.Reporter,
		opts:       opts,
		runID:      uuid.New(),
		forces:     NewForceResolver(&def),
		// Stage spawn points are hitbox centers; the controller places feet.
		spawn: core.V(def.Spawn.X, def.Spawn.Y+PlayerHeight/2),
	}
	s.log = opts.Logger.With("stage", def.ID, "run", s.runID.String()[:8])
	s.player = NewController(s.spawn)
	s.sweep = s.player.Body.Rect
	s.progress = NewProgress(s.profile.StartingBackups)

	for _, e := range def.EnemiesFor(s.difficulty) {
		s.enemies = append(s.enemies, newEnemy(e, s.profile))
	}
	for _, c := range def.CollapsingPlatforms {
		s.collapsers = append(s.collapsers, &collapser{def: c})
	}
	for _, m := range def.MovingPlatforms {
		mv := &mover{def: m}
		mv.rect = mv.at(0)
		s.movers = append(s.movers, mv)
	}
	for _, g := range def.Gems {
		s.gems = append(s.gems, pickup[stage.Gem]{def: g, rect: core.RectAround(g.At, gemSize, gemSize)})
	}
	for _, c := range def.Cycles {
		s.cycles = append(s.cycles, pickup[stage.Cycle]{def: c, rect: core.RectAround(c.At, cycleSize, cycleSize)})
	}
	for _, it := range def.Items {
		s.items = append(s.items, pickup[stage.Item]{def: it, rect: core.RectAround(it.At, itemSize, itemSize)})
	}
	s.checkpoints = def.SnapCheckpoints()

	s.log.Debug("run started",
		"difficulty", s.difficulty, "mirror", s.mirror,
		"enemies", len(s.enemies), "backups", s.progress.Backups)
	return s
}

// Stage returns the (possibly mirrored) stage being played.
func (s *Sim) Stage() *stage.Definition {
	return &s.def
}

// RunID returns the id that the run result will carry.
func (s *Sim) RunID() uuid.UUID {
	return s.runID
}

// Progress returns the live run progress. Callers must not mutate it.
func (s *Sim) Progress() *Progress {
	return s.progress
}

// Player returns the live player controller. Callers must not mutate it.
func (s *Sim) Player() *Controller {
	return s.player
}

// Finished reports whether the run has terminated.
func (s *Sim) Finished() bool {
	return s.finished
}

// Paused reports whether the run is paused.
func (s *Sim) Paused() bool {
	return s.paused
}

// Result returns the run result once finished.
func (s *Sim) Result() (RunResult, bool) {
	if s.result == nil {
		return RunResult{}, false
	}
	return *s.result, true
}

// SetPaused freezes or resumes the run. Paused runs keep their timers.
func (s *Sim) SetPaused(p bool) {
	if s.finished || s.paused == p {
		return
	}
	s.paused = p
	s.events.Emit(EventPause)
	s.log.Debug("pause", "paused", p)
}

// Abandon ends an active run with reason exit. It is a no-op once the run
// has finished.
func (s *Sim) Abandon() (RunResult, bool) {
	if s.finished {
		return RunResult{}, false
	}
	return s.finish(false, ReasonExit), true
}

// Step advances the run by one tick of dtMs milliseconds. Frames longer
// than MaxDeltaMs are clamped.
func (s *Sim) Step(in core.InputFrame, dtMs float64) StepResult {
	if s.finished {
		return StepResult{Status: StatusFinished}
	}
	if in.Has(core.ActionPause) {
		s.SetPaused(!s.paused)
	}
	if s.paused {
		return StepResult{Status: StatusPaused}
	}

	dtMs = core.ClampF(dtMs, 0, MaxDeltaMs)
	if dtMs == 0 || math.IsNaN(dtMs) {
		return StepResult{Status: StatusActive}
	}
	s.tick++
	t := s.tuning.Tuning()
	dt := dtMs / 1000

	s.progress.Tick(dtMs)
	tick(&s.portCooldownMs, dtMs)

	s.moveMovers()
	s.updatePlayer(in, t, dtMs, dt)
	s.fire(in, t)
	s.updateCollapsers(dtMs)
	s.updateEnemies(t, dtMs, dt)
	s.updateShots(t, dtMs)

	s.collect()
	s.touchCheckpoints()
	s.touchSprings()
	s.touchPorts()
	s.touchEnemies(t)

	if !s.finished && s.player.Body.Rect.Intersects(s.def.Goal) {
		s.finish(true, ReasonGoal)
	}
	if !s.finished && s.player.Body.Rect.Center().Y > s.def.Size.Height+FallMargin {
		s.damage(DamageFall, s.player.Body.Center(), t)
	}

	s.compact()

	if s.finished {
		return StepResult{Status: StatusFinished, Result: s.result}
	}
	return StepResult{Status: StatusActive}
}

// solids returns every collidable rectangle this tick.
func (s *Sim) solids() []physics.Solid {
	out := make([]physics.Solid, 0, len(s.def.Platforms)+len(s.collapsers)+len(s.movers))
	for i, r := range s.def.Platforms {
		out = append(out, physics.Solid{Rect: r, Ref: refStatic + i})
	}
	for i, c := range s.collapsers {
		if c.solid() {
			out = append(out, physics.Solid{Rect: c.def.Rect, Ref: refCollapsing + i})
		}
	}
	for i, m := range s.movers {
		out = append(out, physics.Solid{Rect: m.rect, Ref: refMoving + i})
	}
	return out
}

func (s *Sim) contacts(r core.Rect, solids []physics.Solid) Contacts {
	_, grounded := physics.Touching(s.collider, r, physics.ContactDown, solids)
	_, left := physics.Touching(s.collider, r, physics.ContactLeft, solids)
	_, right := physics.Touching(s.collider, r, physics.ContactRight, solids)
	return Contacts{Grounded: grounded, WallLeft: left, WallRight: right}
}

// moveMovers repositions moving platforms and carries a player standing
// on one.
func (s *Sim) moveMovers() {
	if len(s.movers) == 0 {
		return
	}
	ground, onGround := physics.Touching(s.collider, s.player.Body.Rect, physics.ContactDown, s.solids())
	for i, m := range s.movers {
		next := m.at(s.progress.ElapsedMs)
		delta := core.V(next.X-m.rect.X, next.Y-m.rect.Y)
		m.rect = next
		if onGround && ground.Ref == refMoving+i {
			s.player.Body.Rect = s.player.Body.Rect.Moved(delta)
		}
	}
	physics.Depenetrate(s.collider, &s.player.Body, s.solids())
}

func (s *Sim) updatePlayer(in core.InputFrame, t config.MovementTuning, dtMs, dt float64) {
	solids := s.solids()
	ct := s.contacts(s.player.Body.Rect, solids)

	eff := s.forces.Resolve(s.player.Body.Center(), s.progress.ElapsedMs, in.IsHeld(core.ActionUp))
	s.inWater = eff.InWater

	ev := s.player.Update(ControlInputFrom(in, s.hscale), ct, t, dtMs)
	if ev.Jumped {
		s.events.Emit(EventJump)
	}
	if ev.Landed && s.tick > 1 {
		s.events.Emit(EventLand)
	}

	s.player.Body.Vel = CapVelocity(eff.Integrate(s.player.Body.Vel, t.Gravity, dt), t)
	before := s.player.Body.Rect
	s.fallSpeed = s.player.Body.Vel.Y
	physics.Move(s.collider, &s.player.Body, dt, solids)

	b := &s.player.Body
	switch {
	case b.Rect.X < 0:
		b.Rect.X = 0
		b.Vel.X = math.Max(0, b.Vel.X)
	case b.Rect.Right() > s.def.Size.Width:
		b.Rect.X = s.def.Size.Width - b.Rect.W
		b.Vel.X = math.Min(0, b.Vel.X)
	}
	s.sweep = before.Union(b.Rect)
}

func (s *Sim) fire(in core.InputFrame, t config.MovementTuning) {
	if !in.Has(core.ActionFire) || !s.progress.Compiler || s.progress.FireCooldownMs > 0 {
		return
	}
	vel := core.V(s.player.Facing*t.ShotSpeed, 0)
	s.shots = append(s.shots, newShot(OwnerPlayer, s.player.Body.Center(), vel, playerShotLifeMs))
	s.progress.FireCooldownMs = t.FireCooldownMs
	s.events.Emit(EventShoot)
}

func (s *Sim) updateCollapsers(dtMs float64) {
	if len(s.collapsers) == 0 {
		return
	}
	ground, onGround := physics.Touching(s.collider, s.player.Body.Rect, physics.ContactDown, s.solids())
	for i, c := range s.collapsers {
		stoodOn := onGround && ground.Ref == refCollapsing+i
		if c.update(dtMs, stoodOn) {
			physics.Depenetrate(s.collider, &s.player.Body, s.solids())
		}
	}
}

func (s *Sim) updateEnemies(t config.MovementTuning, dtMs, dt float64) {
	ctx := enemyContext{
		dtMs:    dtMs,
		elapsed: s.progress.ElapsedMs,
		target:  s.player.Body.Center(),
		profile: s.profile,
	}
	solids := s.solids()
	bounds := s.def.Bounds()

	for _, e := range s.enemies {
		if !e.Alive {
			continue
		}
		if shot := e.behavior.think(e, ctx); shot != nil {
			s.shots = append(s.shots, shot)
		}

		if e.Floating() {
			e.Body.Rect = e.Body.Rect.Moved(core.V(e.Body.Vel.X*dt, 0))
		} else {
			eff := s.forces.Resolve(e.Center(), s.progress.ElapsedMs, false).Attenuated(enemyZoneStrength)
			e.Body.Vel = eff.Integrate(e.Body.Vel, t.Gravity, dt)
			if e.Body.Vel.Y > t.MaxFallSpeed {
				e.Body.Vel.Y = t.MaxFallSpeed
			}
			physics.Move(s.collider, &e.Body, dt, solids)
			e.grounded = e.Body.Blocked.Has(physics.ContactDown)
		}

		c := e.Center()
		if c.X < bounds.X-enemyBoundsMargin || c.X > bounds.Right()+enemyBoundsMargin ||
			c.Y > bounds.Bottom()+enemyBoundsMargin {
			e.Alive = false
			s.log.Debug("enemy left stage", "enemy", e.ID)
		}
	}
}

func (s *Sim) updateShots(t config.MovementTuning, dtMs float64) {
	solids := s.solids()
	for _, p := range s.shots {
		p.advance(dtMs)
		if !p.Alive {
			continue
		}
		for _, sol := range solids {
			if s.collider.TestOverlap(p.Rect, sol.Rect) {
				p.Alive = false
				break
			}
		}
		if !p.Alive {
			continue
		}

		switch p.Owner {
		case OwnerPlayer:
			for _, e := range s.enemies {
				if e.Alive && s.collider.TestOverlap(p.Rect, e.Body.Rect) {
					p.Alive = false
					s.kill(e)
					break
				}
			}
		case OwnerEnemy:
			if s.collider.TestOverlap(p.Rect, s.player.Body.Rect) {
				p.Alive = false
				s.damage(DamageCombat, p.Rect.Center(), t)
			}
		}
		if s.finished {
			return
		}
	}
}

func (s *Sim) collect() {
	r := s.player.Body.Rect
	for i := range s.gems {
		g := &s.gems[i]
		if g.taken || !r.Intersects(g.rect) {
			continue
		}
		g.taken = true
		if s.progress.CollectGem(g.def.ID) {
			s.events.Emit(EventGem)
		}
	}
	for i := range s.cycles {
		c := &s.cycles[i]
		if c.taken || !r.Intersects(c.rect) {
			continue
		}
		c.taken = true
		value := c.def.Value
		if value <= 0 {
			value = 1
		}
		if granted := s.progress.CollectCycles(value); granted > 0 {
			s.log.Debug("cycle bank paid out", "backups", s.progress.Backups)
		}
		s.events.Emit(EventCollect)
	}
	for i := range s.items {
		it := &s.items[i]
		if it.taken || !r.Intersects(it.rect) {
			continue
		}
		it.taken = true
		s.progress.ApplyItem(it.def.Kind)
		if it.def.Kind == stage.ItemRootKey {
			s.events.Emit(EventSudo)
		} else {
			s.events.Emit(EventCollect)
		}
	}
}

func (s *Sim) touchCheckpoints() {
	r := s.player.Body.Rect
	for _, cp := range s.checkpoints {
		if !r.Intersects(cp.Rect) {
			continue
		}
		if s.progress.Activate(Checkpoint{ID: cp.ID, Anchor: cp.Anchor}) {
			s.events.Emit(EventCheckpoint)
			s.log.Debug("checkpoint", "id", cp.ID)
		}
	}
}

// touchSprings fires the first spring the player fell into this tick. It
// reads the speed from before collision and the swept area, since a
// landing zeroes the velocity.
func (s *Sim) touchSprings() {
	if s.fallSpeed <= springThreshold {
		return
	}
	for _, sp := range s.def.Springs {
		if !s.sweep.Intersects(sp.Rect) {
			continue
		}
		bounce := sp.BounceVelocity
		if bounce <= 0 {
			bounce = defaultSpringBounce
		}
		s.player.Bounce(bounce)
		s.events.Emit(EventJump)
		return
	}
}

func (s *Sim) touchPorts() {
	if s.portCooldownMs > 0 {
		return
	}
	for _, p := range s.def.Ports {
		if !s.player.Body.Rect.Intersects(p.Entry) {
			continue
		}
		s.player.Body.Rect = s.player.Body.Rect.WithCenter(p.Exit)
		s.portCooldownMs = p.CooldownMs
		if s.portCooldownMs <= 0 {
			s.portCooldownMs = defaultPortCooldown
		}
		s.events.Emit(EventWarp)
		return
	}
}

// touchEnemies resolves player contact: sudo kills, stomps and ground
// pounds kill and bounce, anything else hurts.
func (s *Sim) touchEnemies(t config.MovementTuning) {
	for _, e := range s.enemies {
		if s.finished {
			return
		}
		if !e.Alive || !s.collider.TestOverlap(s.player.Body.Rect, e.Body.Rect) {
			continue
		}

		switch {
		case s.progress.Sudo():
			s.kill(e)
		case s.player.Mode == ModeGroundPounding:
			s.kill(e)
			s.player.Bounce(poundBounce)
		case s.fallSpeed > stompThreshold && s.player.Body.Center().Y < e.Body.Rect.Y:
			s.kill(e)
			s.player.Bounce(stompBounce)
		default:
			s.damage(DamageCombat, e.Center(), t)
		}
	}
}

func (s *Sim) kill(e *Enemy) {
	if !e.Alive {
		return
	}
	e.Alive = false
	s.events.Emit(EventEnemyDie)
}

// damage applies a hit from a source at point from.
func (s *Sim) damage(src DamageSource, from core.Vec2, t config.MovementTuning) {
	outcome := s.progress.TakeHit(src, t.InvulnTimeMs)
	if outcome == HitIgnored {
		return
	}
	s.events.Emit(EventHit)

	switch outcome {
	case HitShieldBroken:
		away := core.Sign(s.player.Body.Center().X - from.X)
		if away == 0 {
			away = -s.player.Facing
		}
		s.player.Knockback(core.V(away*t.KnockbackStrength, -t.KnockbackStrength*knockbackLift), knockbackLockMs)
		s.log.Debug("shield broken")
	case HitRespawn:
		s.respawn()
	case HitFatal:
		reason := ReasonGlitch
		if src == DamageFall {
			reason = ReasonNullPointer
		}
		s.finish(false, reason)
	}
}

func (s *Sim) respawn() {
	at := s.spawn
	if cp := s.progress.Checkpoint; cp != nil {
		at = cp.Anchor
	}
	s.player.Reset(at)
	s.fallSpeed = 0
	s.sweep = s.player.Body.Rect
	s.log.Info("respawn", "at", at, "backups", s.progress.Backups, "checkpoint", s.progress.Checkpoint != nil)
}

func (s *Sim) finish(success bool, reason Reason) RunResult {
	p := s.progress
	score := Score(ScoreInput{
		Success:   success,
		Gems:      p.GemCount(),
		GemsTotal: len(s.def.Gems),
		Cycles:    p.Cycles,
		Hits:      p.HitsTaken,
		ElapsedMs: p.ElapsedMs,
		TargetMs:  s.def.TimeTargetMs,
	})
	res := RunResult{
		RunID:       s.runID,
		StageID:     s.def.ID,
		StageName:   s.def.Name,
		Success:     success,
		Reason:      reason,
		ElapsedMs:   p.ElapsedMs,
		Difficulty:  s.difficulty,
		Mirror:      s.mirror,
		Cycles:      p.Cycles,
		Gems:        p.GemCount(),
		GemsTotal:   len(s.def.Gems),
		Hits:        p.HitsTaken,
		BackupsUsed: p.BackupsUsed,
		Score:       score,
		Rank:        RankFor(score, success),
		FinishedAt:  s.opts.Now(),
	}
	s.finished = true
	s.paused = false
	s.result = &res
	if success {
		s.events.Emit(EventGoal)
	}
	s.log.Info("run finished", "success", success, "reason", reason, "score", score, "rank", res.Rank)
	s.reporter.Report(res)
	return res
}

// compact drops destroyed enemies and shots.
func (s *Sim) compact() {
	enemies := s.enemies[:0]
	for _, e := range s.enemies {
		if e.Alive {
			enemies = append(enemies, e)
		}
	}
	s.enemies = enemies

	shots := s.shots[:0]
	for _, p := range s.shots {
		if p.Alive {
			shots = append(shots, p)
		}
	}
	s.shots = shots
}

// Snapshot returns the observable state after the last tick.
func (s *Sim) Snapshot() Snapshot {
	pl := s.player
	r := pl.Body.Rect
	p := s.progress

	status := StatusActive
	switch {
	case s.finished:
		status = StatusFinished
	case s.paused:
		status = StatusPaused
	}

	snap := Snapshot{
		Coordinates: core.CoordinateSystem,
		Tick:        s.tick,
		StageID:     s.def.ID,
		Mirror:      s.mirror,
		Status:      status,
		ElapsedMs:   p.ElapsedMs,
		Player: PlayerView{
			X: r.X, Y: r.Y, W: r.W, H: r.H,
			VX: pl.Body.Vel.X, VY: pl.Body.Vel.Y,
			Facing:         pl.Facing,
			Grounded:       s.contacts(r, s.solids()).Grounded,
			Running:        pl.Running,
			Sliding:        pl.Mode == ModeSliding,
			GroundPounding: pl.Mode == ModeGroundPounding,
			InWater:        s.inWater,
			CoyoteMs:       pl.CoyoteMs(),
			JumpBufferMs:   pl.JumpBufferMs(),
			LookAhead:      pl.LookAhead(),
		},
		Resources: Resources{
			Patch:       p.Patch,
			Compiler:    p.Compiler,
			SudoMs:      p.SudoMs,
			InvulnMs:    p.InvulnMs,
			Cycles:      p.Cycles,
			CycleBank:   p.CycleBank,
			Gems:        p.GemCount(),
			GemsTotal:   len(s.def.Gems),
			Hits:        p.HitsTaken,
			Backups:     p.Backups,
			BackupsUsed: p.BackupsUsed,
		},
	}
	if s.result != nil {
		snap.Reason = s.result.Reason
	}
	if p.Checkpoint != nil {
		snap.Resources.Checkpoint = p.Checkpoint.ID
	}

	for _, e := range s.enemies {
		if e.Alive {
			snap.Remaining.Enemies++
			snap.Entities = append(snap.Entities, EntityView{Kind: EntityEnemy, ID: e.ID, Rect: e.Body.Rect, State: string(e.Kind)})
		}
	}
	for _, sh := range s.shots {
		if sh.Alive {
			snap.Remaining.Projectiles++
			owner := "player"
			if sh.Owner == OwnerEnemy {
				owner = "enemy"
			}
			snap.Entities = append(snap.Entities, EntityView{Kind: EntityShot, Rect: sh.Rect, State: owner})
		}
	}
	for _, g := range s.gems {
		if !g.taken {
			snap.Remaining.Gems++
			snap.Entities = append(snap.Entities, EntityView{Kind: EntityGem, ID: g.def.ID, Rect: g.rect})
		}
	}
	for _, c := range s.cycles {
		if !c.taken {
			snap.Remaining.Cycles++
			snap.Entities = append(snap.Entities, EntityView{Kind: EntityCycle, ID: c.def.ID, Rect: c.rect})
		}
	}
	for _, it := range s.items {
		if !it.taken {
			snap.Remaining.Items++
			snap.Entities = append(snap.Entities, EntityView{Kind: EntityItem, ID: it.def.ID, Rect: it.rect, State: string(it.def.Kind)})
		}
	}
	for _, cp := range s.checkpoints {
		state := ""
		if p.Checkpoint != nil && p.Checkpoint.ID == cp.ID {
			state = "active"
		}
		snap.Entities = append(snap.Entities, EntityView{Kind: EntityCheckpoint, ID: cp.ID, Rect: cp.Rect, State: state})
	}
	for _, c := range s.collapsers {
		state := c.state.String()
		if c.warning() {
			state = "warning"
		}
		snap.Entities = append(snap.Entities, EntityView{Kind: EntityCollapsing, ID: c.def.ID, Rect: c.def.Rect, State: state})
	}
	for _, m := range s.movers {
		snap.Entities = append(snap.Entities, EntityView{Kind: EntityMoving, ID: m.def.ID, Rect: m.rect})
	}
	return snap
}

package sim

import (
	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/stage"
)

// SudoDurationMs is how long the root key keeps sudo mode active.
const SudoDurationMs = 8000.0

// cyclesPerBackup is the bank size that converts into one backup.
const cyclesPerBackup = 100

// PatchState is the player's shield status.
type PatchState string

const (
	PatchRaw          PatchState = "raw"
	PatchEncapsulated PatchState = "encapsulated"
)

// DamageSource distinguishes combat hits from falls.
type DamageSource uint8

const (
	DamageCombat DamageSource = iota
	DamageFall
)

// HitOutcome is the result of applying damage.
type HitOutcome uint8

const (
	HitIgnored      HitOutcome = iota // invulnerable
	HitShieldBroken                   // shield absorbed the hit
	HitRespawn                        // player died and respawns
	HitFatal                          // no backup and no checkpoint
)

// String returns a log-friendly name.
func (o HitOutcome) String() string {
	switch o {
	case HitShieldBroken:
		return "shield_broken"
	case HitRespawn:
		return "respawn"
	case HitFatal:
		return "fatal"
	default:
		return "ignored"
	}
}

// Checkpoint is an activated respawn anchor.
type Checkpoint struct {
	ID     string
	Anchor core.Vec2
}

// Progress is the run-level state: shield, timers, resources and lives.
// Timers are in milliseconds and never negative.
type Progress struct {
	Patch          PatchState
	Compiler       bool
	SudoMs         float64
	InvulnMs       float64
	FireCooldownMs float64

	Cycles    int
	CycleBank int
	gems      map[string]struct{}

	HitsTaken   int
	Backups     int
	BackupsUsed int
	Checkpoint  *Checkpoint
	ElapsedMs   float64

	touched map[string]struct{}
}

// NewProgress starts a run with the given number of backups.
func NewProgress(backups int) *Progress {
	if backups < 0 {
		backups = 0
	}
	return &Progress{
		Patch:   PatchRaw,
		Backups: backups,
		gems:    make(map[string]struct{}),
		touched: make(map[string]struct{}),
	}
}

// Tick advances the run clock and decrements every timer.
func (p *Progress) Tick(dtMs float64) {
	p.ElapsedMs += dtMs
	tick(&p.SudoMs, dtMs)
	tick(&p.InvulnMs, dtMs)
	tick(&p.FireCooldownMs, dtMs)
}

// Sudo reports whether sudo mode is active.
func (p *Progress) Sudo() bool {
	return p.SudoMs > 0
}

// Vulnerable reports whether a combat hit would land.
func (p *Progress) Vulnerable() bool {
	return p.InvulnMs <= 0 && p.SudoMs <= 0
}

// GemCount returns the number of distinct gems collected.
func (p *Progress) GemCount() int {
	return len(p.gems)
}

// HasGem reports whether the gem id was already collected.
func (p *Progress) HasGem(id string) bool {
	_, ok := p.gems[id]
	return ok
}

// CollectGem records a gem. Collecting an id twice is a no-op and
// returns false.
func (p *Progress) CollectGem(id string) bool {
	if p.HasGem(id) {
		return false
	}
	p.gems[id] = struct{}{}
	return true
}

// CollectCycles adds value cycles and returns the number of backups the
// bank granted.
func (p *Progress) CollectCycles(value int) int {
	if value <= 0 {
		return 0
	}
	p.Cycles += value
	p.CycleBank += value
	granted := 0
	for p.CycleBank >= cyclesPerBackup {
		p.CycleBank -= cyclesPerBackup
		p.Backups++
		granted++
	}
	return granted
}

// ApplyItem grants the effect of an item pickup.
func (p *Progress) ApplyItem(kind stage.ItemKind) {
	switch kind {
	case stage.ItemModule:
		p.Patch = PatchEncapsulated
	case stage.ItemRootKey:
		p.SudoMs = SudoDurationMs
	case stage.ItemCompiler:
		p.Compiler = true
	}
}

// Activate records cp as the respawn anchor on its first touch. Later
// touches of the same checkpoint are no-ops and return false.
func (p *Progress) Activate(cp Checkpoint) bool {
	if _, ok := p.touched[cp.ID]; ok {
		return false
	}
	p.touched[cp.ID] = struct{}{}
	p.Checkpoint = &cp
	return true
}

// TakeHit applies one hit. invulnMs is the window granted after a shield
// break or a respawn.
//
// Combat hits are ignored while invulnerable or in sudo mode. A shield
// absorbs a combat hit. Any other hit, and every fall, is a death: a
// backup is consumed when one is left; with none left the player still
// respawns at an active checkpoint; only with neither is the hit fatal.
func (p *Progress) TakeHit(src DamageSource, invulnMs float64) HitOutcome {
	if src == DamageCombat {
		if !p.Vulnerable() {
			return HitIgnored
		}
		p.HitsTaken++
		if p.Patch == PatchEncapsulated {
			p.Patch = PatchRaw
			p.InvulnMs = invulnMs
			return HitShieldBroken
		}
	}

	switch {
	case p.Backups > 0:
		p.Backups--
		p.BackupsUsed++
	case p.Checkpoint != nil:
	default:
		return HitFatal
	}
	p.InvulnMs = invulnMs
	return HitRespawn
}

package sim

import (
	"hash/fnv"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/runtime-zero/internal/core"
)

// Status is the run state machine state.
type Status string

const (
	StatusActive   Status = "active"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// PlayerView is the player's kinematic state.
type PlayerView struct {
	X              float64 `json:"x" msgpack:"x"`
	Y              float64 `json:"y" msgpack:"y"`
	W              float64 `json:"w" msgpack:"w"`
	H              float64 `json:"h" msgpack:"h"`
	VX             float64 `json:"vx" msgpack:"vx"`
	VY             float64 `json:"vy" msgpack:"vy"`
	Facing         float64 `json:"facing" msgpack:"facing"`
	Grounded       bool    `json:"grounded" msgpack:"grounded"`
	Running        bool    `json:"running" msgpack:"running"`
	Sliding        bool    `json:"sliding" msgpack:"sliding"`
	GroundPounding bool    `json:"ground_pounding" msgpack:"ground_pounding"`
	InWater        bool    `json:"in_water" msgpack:"in_water"`
	CoyoteMs       float64 `json:"coyote_ms" msgpack:"coyote_ms"`
	JumpBufferMs   float64 `json:"jump_buffer_ms" msgpack:"jump_buffer_ms"`
	LookAhead      float64 `json:"look_ahead" msgpack:"look_ahead"`
}

// Resources are the run counters.
type Resources struct {
	Patch       PatchState `json:"patch" msgpack:"patch"`
	Compiler    bool       `json:"compiler" msgpack:"compiler"`
	SudoMs      float64    `json:"sudo_ms" msgpack:"sudo_ms"`
	InvulnMs    float64    `json:"invuln_ms" msgpack:"invuln_ms"`
	Cycles      int        `json:"cycles" msgpack:"cycles"`
	CycleBank   int        `json:"cycle_bank" msgpack:"cycle_bank"`
	Gems        int        `json:"gems" msgpack:"gems"`
	GemsTotal   int        `json:"gems_total" msgpack:"gems_total"`
	Hits        int        `json:"hits" msgpack:"hits"`
	Backups     int        `json:"backups" msgpack:"backups"`
	BackupsUsed int        `json:"backups_used" msgpack:"backups_used"`
	Checkpoint  string     `json:"checkpoint,omitempty" msgpack:"checkpoint,omitempty"`
}

// Remaining counts entities still present in the stage.
type Remaining struct {
	Enemies     int `json:"enemies" msgpack:"enemies"`
	Gems        int `json:"gems" msgpack:"gems"`
	Cycles      int `json:"cycles" msgpack:"cycles"`
	Items       int `json:"items" msgpack:"items"`
	Projectiles int `json:"projectiles" msgpack:"projectiles"`
}

// EntityKind tags an EntityView.
type EntityKind string

const (
	EntityEnemy      EntityKind = "enemy"
	EntityShot       EntityKind = "shot"
	EntityGem        EntityKind = "gem"
	EntityCycle      EntityKind = "cycle"
	EntityItem       EntityKind = "item"
	EntityCheckpoint EntityKind = "checkpoint"
	EntityCollapsing EntityKind = "collapsing"
	EntityMoving     EntityKind = "moving"
)

// EntityView is a dynamic entity for presenters. State is kind specific:
// the enemy kind, the shot owner, the item kind, "active" for the current
// checkpoint, or the collapse state.
type EntityView struct {
	Kind  EntityKind `json:"kind" msgpack:"kind"`
	ID    string     `json:"id,omitempty" msgpack:"id,omitempty"`
	Rect  core.Rect  `json:"rect" msgpack:"rect"`
	State string     `json:"state,omitempty" msgpack:"state,omitempty"`
}

// Snapshot is the externally observable state after a tick.
type Snapshot struct {
	Coordinates string  `json:"coordinates" msgpack:"coordinates"`
	Tick        uint64  `json:"tick" msgpack:"tick"`
	StageID     string  `json:"stage_id" msgpack:"stage_id"`
	Mirror      bool    `json:"mirror" msgpack:"mirror"`
	Status      Status  `json:"status" msgpack:"status"`
	Reason      Reason  `json:"reason,omitempty" msgpack:"reason,omitempty"`
	ElapsedMs   float64 `json:"elapsed_ms" msgpack:"elapsed_ms"`

	Player    PlayerView   `json:"player" msgpack:"player"`
	Resources Resources    `json:"resources" msgpack:"resources"`
	Remaining Remaining    `json:"remaining" msgpack:"remaining"`
	Entities  []EntityView `json:"entities,omitempty" msgpack:"entities,omitempty"`
}

// Encode returns the msgpack encoding of the snapshot.
func (s *Snapshot) Encode() ([]byte, error) {
	return msgpack.Marshal(s)
}

// Hash returns an FNV-1a hash of the encoded snapshot for determinism
// checks. Two runs fed the same inputs and deltas hash equal.
func (s *Snapshot) Hash() uint64 {
	data, err := s.Encode()
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}

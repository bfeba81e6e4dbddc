// Package replay records the inputs of a run and re-simulates them to
// verify determinism. Recordings are msgpack files.
package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/runtime-zero/internal/config"
	"github.com/vovakirdan/runtime-zero/internal/core"
	"github.com/vovakirdan/runtime-zero/internal/sim"
	"github.com/vovakirdan/runtime-zero/internal/stage"
)

// FormatVersion is bumped whenever the recording layout changes.
const FormatVersion = 1

// ErrMismatch is returned when a re-simulation diverges from the
// recorded final state.
var ErrMismatch = errors.New("replay: final state mismatch")

// ErrVersion is returned for recordings written by another format version.
var ErrVersion = errors.New("replay: unsupported format version")

// Header describes the run configuration needed to reproduce it.
type Header struct {
	Version         int                      `msgpack:"version"`
	StageID         string                   `msgpack:"stage_id"`
	Difficulty      config.Difficulty        `msgpack:"difficulty"`
	Mirror          bool                     `msgpack:"mirror"`
	HorizontalScale float64                  `msgpack:"hscale"`
	Tuning          config.MovementTuning    `msgpack:"tuning"`
	Profile         config.DifficultyProfile `msgpack:"profile"`
	RecordedAt      time.Time                `msgpack:"recorded_at"`
}

// Frame is one Step call.
type Frame struct {
	DtMs  float64         `msgpack:"dt"`
	Input core.InputFrame `msgpack:"in"`
}

// Recording is a complete replay file.
type Recording struct {
	Header    Header     `msgpack:"header"`
	Frames    []Frame    `msgpack:"frames"`
	FinalTick uint64     `msgpack:"final_tick"`
	FinalHash uint64     `msgpack:"final_hash"`
	Reason    sim.Reason `msgpack:"reason,omitempty"`
}

// Recorder wraps a Stepper and records every step it forwards.
type Recorder struct {
	target sim.Stepper
	rec    Recording
}

// NewRecorder starts a recording for a run described by h.
func NewRecorder(target sim.Stepper, h Header) *Recorder {
	h.Version = FormatVersion
	return &Recorder{target: target, rec: Recording{Header: h}}
}

// Step implements sim.Stepper.
func (r *Recorder) Step(in core.InputFrame, dtMs float64) sim.StepResult {
	r.rec.Frames = append(r.rec.Frames, Frame{DtMs: dtMs, Input: in.Clone()})
	return r.target.Step(in, dtMs)
}

// Len returns the number of recorded frames.
func (r *Recorder) Len() int {
	return len(r.rec.Frames)
}

// Finish seals the recording with the final snapshot.
func (r *Recorder) Finish(final sim.Snapshot) Recording {
	r.rec.FinalTick = final.Tick
	r.rec.FinalHash = final.Hash()
	r.rec.Reason = final.Reason
	return r.rec
}

// Options rebuilds the simulation options the recording was made with.
func (rec Recording) Options(def *stage.Definition) sim.Options {
	profile := rec.Header.Profile
	return sim.Options{
		Stage:           def,
		Difficulty:      rec.Header.Difficulty,
		Mirror:          rec.Header.Mirror,
		HorizontalScale: rec.Header.HorizontalScale,
		Tuning:          sim.StaticTuning(rec.Header.Tuning),
		Profile:         &profile,
	}
}

// Play re-simulates the recording against def and returns the final
// snapshot. A run the player abandoned is abandoned again after its last
// frame.
func Play(rec Recording, def *stage.Definition) sim.Snapshot {
	s := sim.New(rec.Options(def))
	for _, f := range rec.Frames {
		s.Step(f.Input, f.DtMs)
	}
	if rec.Reason == sim.ReasonExit {
		s.Abandon()
	}
	return s.Snapshot()
}

// Verify re-simulates the recording and checks the final hash.
func Verify(rec Recording, def *stage.Definition) (sim.Snapshot, error) {
	if def.ID != rec.Header.StageID {
		return sim.Snapshot{}, fmt.Errorf("replay: recording is for stage %q, got %q", rec.Header.StageID, def.ID)
	}
	snap := Play(rec, def)
	if got := snap.Hash(); got != rec.FinalHash || snap.Tick != rec.FinalTick {
		return snap, fmt.Errorf("%w: tick %d hash %x, recorded tick %d hash %x",
			ErrMismatch, snap.Tick, got, rec.FinalTick, rec.FinalHash)
	}
	return snap, nil
}

// Write encodes rec to w.
func Write(w io.Writer, rec Recording) error {
	if err := msgpack.NewEncoder(w).Encode(&rec); err != nil {
		return fmt.Errorf("replay: encode: %w", err)
	}
	return nil
}

// Read decodes a recording from r.
func Read(r io.Reader) (Recording, error) {
	var rec Recording
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		return Recording{}, fmt.Errorf("replay: decode: %w", err)
	}
	if rec.Header.Version != FormatVersion {
		return Recording{}, fmt.Errorf("%w: %d", ErrVersion, rec.Header.Version)
	}
	return rec, nil
}

// Save writes rec to path.
func Save(path string, rec Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: create %s: %w", path, err)
	}
	if err := Write(f, rec); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("replay: close %s: %w", path, err)
	}
	return nil
}

// Load reads a recording from path.
func Load(path string) (Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recording{}, fmt.Errorf("replay: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

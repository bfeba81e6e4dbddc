package sim

// window is a grace timer such as coyote time or the jump buffer.
//
// Arming sets the full duration and the arming tick does not decay it.
// Every later tick subtracts its elapsed time; the window closes once the
// remaining time would drop below zero. A window of C ms therefore accepts
// an action C ms after arming but not C+1 ms after, and a 0 ms window is
// live only on the tick that armed it.
type window struct {
	remaining float64
	live      bool
}

func (w *window) arm(ms float64) {
	if ms < 0 {
		ms = 0
	}
	w.remaining = ms
	w.live = true
}

func (w *window) decay(ms float64) {
	if !w.live {
		return
	}
	w.remaining -= ms
	if w.remaining < 0 {
		w.close()
	}
}

func (w *window) close() {
	w.remaining = 0
	w.live = false
}

// Remaining reports the time left, zero when closed.
func (w window) Remaining() float64 {
	return w.remaining
}

// tick decrements a countdown timer, clamping at zero.
func tick(timer *float64, ms float64) {
	*timer -= ms
	if *timer < 0 {
		*timer = 0
	}
}

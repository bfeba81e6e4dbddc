package sim

import "testing"

func TestWindowSemantics(t *testing.T) {
	var w window
	w.arm(3)
	for i, wantLive := range []bool{true, true, true, false} {
		w.decay(1)
		if w.live != wantLive {
			t.Fatalf("after %d decays live=%v, want %v", i+1, w.live, wantLive)
		}
	}

	w.arm(0)
	if !w.live {
		t.Fatal("zero window should be live on the arming tick")
	}
	w.decay(0.001)
	if w.live || w.Remaining() != 0 {
		t.Fatal("zero window should close on the next tick")
	}
}

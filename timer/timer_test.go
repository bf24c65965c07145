package timer

import "testing"

func TestWheelPeriodicFires(t *testing.T) {
	var w Wheel
	fired := 0
	h, err := w.Set(0, 10, func(now uint32) bool {
		fired++
		return true // periodic
	})
	if err != nil {
		t.Fatal(err)
	}
	for now := uint32(0); now < 35; now += 5 {
		w.Periodic(now)
	}
	if fired != 3 {
		t.Fatalf("got %d fires want 3", fired)
	}
	if !w.Active(h) {
		t.Fatal("periodic timer should remain active")
	}
}

func TestWheelOneShotClears(t *testing.T) {
	var w Wheel
	h, _ := w.Set(0, 10, func(now uint32) bool {
		return false // one-shot
	})
	w.Periodic(10)
	if w.Active(h) {
		t.Fatal("one-shot timer should have cleared itself")
	}
}

func TestWheelClear(t *testing.T) {
	var w Wheel
	h, _ := w.Set(0, 10, func(now uint32) bool { return true })
	w.Clear(h)
	if w.Active(h) {
		t.Fatal("expected timer to be cleared")
	}
}

func TestWheelTableFull(t *testing.T) {
	var w Wheel
	for i := 0; i < MaxTimers; i++ {
		if _, err := w.Set(0, 10, func(uint32) bool { return true }); err != nil {
			t.Fatalf("unexpected error filling slot %d: %v", i, err)
		}
	}
	if _, err := w.Set(0, 10, func(uint32) bool { return true }); err == nil {
		t.Fatal("expected table full error")
	}
}

func TestWheelResetRestart(t *testing.T) {
	var w Wheel
	fired := 0
	h, _ := w.Set(0, 10, func(uint32) bool { fired++; return true })
	w.Reset(h) // start becomes 10
	w.Periodic(15)
	if fired != 0 {
		t.Fatal("should not have fired yet after Reset pushed start forward")
	}
	w.Restart(h, 100)
	w.Periodic(105)
	if fired != 0 {
		t.Fatal("should not fire before full interval elapses from restart point")
	}
	w.Periodic(110)
	if fired != 1 {
		t.Fatalf("got %d want 1", fired)
	}
}

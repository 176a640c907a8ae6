package query

import (
	"testing"
	"time"
)

func TestDebouncerEmitsFinalValueOnce(t *testing.T) {
	d := NewDebouncer[string](20 * time.Millisecond)
	defer d.Stop()

	d.Set("l")
	d.Set("lo")
	d.Set("lon")
	d.Set("london")

	select {
	case v := <-d.C():
		if v != "london" {
			t.Fatalf("emitted %q, want the final value", v)
		}
	case <-time.After(time.Second):
		t.Fatal("debouncer never emitted")
	}

	select {
	case v := <-d.C():
		t.Fatalf("unexpected second emission %q", v)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestDebouncerResetsOnEachSet(t *testing.T) {
	d := NewDebouncer[int](40 * time.Millisecond)
	defer d.Stop()

	d.Set(1)
	time.Sleep(25 * time.Millisecond)
	d.Set(2) // restarts the window before 1 fires

	select {
	case v := <-d.C():
		t.Fatalf("emitted %d before the reset window elapsed", v)
	case <-time.After(25 * time.Millisecond):
	}

	select {
	case v := <-d.C():
		if v != 2 {
			t.Fatalf("emitted %d want 2", v)
		}
	case <-time.After(time.Second):
		t.Fatal("debouncer never emitted after reset")
	}
}

func TestDebouncerSetDelayClearsPending(t *testing.T) {
	d := NewDebouncer[int](20 * time.Millisecond)
	defer d.Stop()

	d.Set(1)
	d.SetDelay(10 * time.Millisecond)

	select {
	case v := <-d.C():
		t.Fatalf("pending emission %d must be cleared on delay change", v)
	case <-time.After(60 * time.Millisecond):
	}

	d.Set(2)
	select {
	case v := <-d.C():
		if v != 2 {
			t.Fatalf("emitted %d want 2", v)
		}
	case <-time.After(time.Second):
		t.Fatal("no emission after delay change")
	}
}

func TestDebouncerStopIsIdempotentAndFinal(t *testing.T) {
	d := NewDebouncer[int](10 * time.Millisecond)
	d.Set(1)
	d.Stop()
	d.Stop()
	d.Set(2)

	select {
	case v := <-d.C():
		t.Fatalf("stopped debouncer emitted %d", v)
	case <-time.After(40 * time.Millisecond):
	}
}

func TestDebouncerReplacesUnreadEmission(t *testing.T) {
	d := NewDebouncer[int](5 * time.Millisecond)
	defer d.Stop()

	d.Set(1)
	time.Sleep(20 * time.Millisecond) // 1 sits unread in the buffer
	d.Set(2)
	time.Sleep(20 * time.Millisecond)

	select {
	case v := <-d.C():
		if v != 2 {
			t.Fatalf("read %d, unread value should have been replaced", v)
		}
	default:
		t.Fatal("expected a buffered emission")
	}
}

package events_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/events"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	ch := evts.Acquire("viewer")
	if evts.Acquire("viewer") != ch {
		t.Fatalf("Should get back the same channel for the same id.")
	}

	evts.Send("block mined")

	if msg := <-ch; msg != "block mined" {
		t.Fatalf("Should receive the event, got %q", msg)
	}

	if err := evts.Release("viewer"); err != nil {
		t.Fatalf("Should be able to release the listener: %s", err)
	}

	if _, open := <-ch; open {
		t.Fatalf("Should close the channel on release.")
	}

	if err := evts.Release("viewer"); err == nil {
		t.Fatalf("Should not release an unknown listener.")
	}

	ch = evts.Acquire("other")
	evts.Shutdown()
	if _, open := <-ch; open {
		t.Fatalf("Should close the channel on shutdown.")
	}
}

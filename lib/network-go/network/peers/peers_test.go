package peers

import (
	"reflect"
	"testing"
)

func TestTrackerUpdates(t *testing.T) {
	ch := make(chan PeerUpdate, 8)
	tracker := NewTracker(ch)

	tracker.Join("b:2")
	tracker.Join("a:1")
	tracker.Join("a:1")
	tracker.Leave("c:3")
	tracker.Leave("b:2")

	expected := []PeerUpdate{
		{Peers: []string{"b:2"}, New: "b:2", Lost: []string{}},
		{Peers: []string{"a:1", "b:2"}, New: "a:1", Lost: []string{}},
		{Peers: []string{"a:1"}, Lost: []string{"b:2"}},
	}
	for i, e := range expected {
		select {
		case got := <-ch:
			if !reflect.DeepEqual(got, e) {
				t.Errorf("update %d = %+v, expected %+v", i, got, e)
			}
		default:
			t.Fatalf("missing update %d", i)
		}
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected update %+v", extra)
	default:
	}
}

func TestTrackerTouch(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Touch("ghost")
	if _, ok := tracker.LastSeen("ghost"); ok {
		t.Error("Touch registered an unknown peer")
	}

	tracker.Join("a:1")
	joined, ok := tracker.LastSeen("a:1")
	if !ok {
		t.Fatal("LastSeen() after Join not found")
	}
	tracker.Touch("a:1")
	touched, _ := tracker.LastSeen("a:1")
	if touched.Before(joined) {
		t.Errorf("Touch moved LastSeen back from %v to %v", joined, touched)
	}
	if got := tracker.Peers(); !reflect.DeepEqual(got, []string{"a:1"}) {
		t.Errorf("Peers() = %v", got)
	}
}

func TestTrackerDropsUpdatesWithoutReceiver(t *testing.T) {
	ch := make(chan PeerUpdate)
	tracker := NewTracker(ch)
	tracker.Join("a:1")
	tracker.Leave("a:1")
	if got := tracker.Peers(); len(got) != 0 {
		t.Errorf("Peers() = %v, expected none", got)
	}
}

package timer

import (
	"context"
	"testing"
	"time"
)

func TestTickerStartStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tickCh := make(chan time.Time)
	action := make(chan TimerAction)
	done := make(chan struct{})
	go func() {
		Ticker(ctx, 5*time.Millisecond, tickCh, action)
		close(done)
	}()

	select {
	case <-tickCh:
		t.Fatal("tick before Start")
	case <-time.After(30 * time.Millisecond):
	}

	action <- Start
	for i := 0; i < 3; i++ {
		select {
		case <-tickCh:
		case <-time.After(time.Second):
			t.Fatal("no tick after Start")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Ticker did not return after cancel")
	}
}

func TestTickerStopsTicking(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tickCh := make(chan time.Time)
	action := make(chan TimerAction, 1)
	go Ticker(ctx, 20*time.Millisecond, tickCh, action)

	action <- Start
	<-tickCh
	action <- Stop

	// a tick already taken from the ticker may still be delivered
	late := 0
	for {
		select {
		case <-tickCh:
			late++
			if late > 2 {
				t.Fatal("ticks keep arriving after Stop")
			}
			continue
		case <-time.After(100 * time.Millisecond):
		}
		break
	}
}

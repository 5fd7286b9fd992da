package dispatcher

import (
	"context"
	"errors"
	"time"

	"elevrig/src/types"
)

var ErrStopped = errors.New("dispatcher manager stopped")

// Cmd is an operation executed inside the manager goroutine.
type Cmd struct {
	Exec func(d *Dispatcher)
}

// Mgr owns the dispatcher and serializes every access to it.
// Calls, queries and ticks are handled one at a time by a single goroutine.
type Mgr struct {
	cmds   chan Cmd
	done   chan struct{}
	floors int
}

// StartMgr starts the manager goroutine. It runs OnTick for every value on ticks
// and stops when ctx is cancelled.
func StartMgr(ctx context.Context, d *Dispatcher, ticks <-chan time.Time) *Mgr {
	mgr := &Mgr{
		cmds:   make(chan Cmd),
		done:   make(chan struct{}),
		floors: d.Floors(),
	}
	go func() {
		defer close(mgr.done)
		for {
			select {
			case <-ctx.Done():
				return
			case cmd := <-mgr.cmds:
				cmd.Exec(d)
			case <-ticks:
				d.OnTick()
			}
		}
	}()
	return mgr
}

// Exec runs fn inside the manager goroutine and waits for it to return.
// Returns false if the manager has stopped.
func (mgr *Mgr) Exec(fn func(d *Dispatcher)) bool {
	finished := make(chan struct{})
	cmd := Cmd{Exec: func(d *Dispatcher) {
		fn(d)
		close(finished)
	}}
	select {
	case mgr.cmds <- cmd:
	case <-mgr.done:
		return false
	}
	<-finished
	return true
}

// Done is closed when the manager goroutine has exited.
func (mgr *Mgr) Done() <-chan struct{} {
	return mgr.done
}

// Assign forwards a call to the dispatcher. Returns -1 if the call was ignored
// or the manager has stopped.
func (mgr *Mgr) Assign(pickup, dropoff int) int {
	assignee := -1
	mgr.Exec(func(d *Dispatcher) {
		assignee = d.Assign(pickup, dropoff)
	})
	return assignee
}

// Tick runs one OnTick outside of the tick channel.
func (mgr *Mgr) Tick() {
	mgr.Exec(func(d *Dispatcher) {
		d.OnTick()
	})
}

func (mgr *Mgr) Pending() types.PendingRequest {
	var pending types.PendingRequest
	mgr.Exec(func(d *Dispatcher) {
		pending = d.Pending()
	})
	return pending
}

// Snapshot returns a deep copy of every car.
func (mgr *Mgr) Snapshot() ([]types.Car, error) {
	var (
		cars []types.Car
		err  = ErrStopped
	)
	mgr.Exec(func(d *Dispatcher) {
		cars, err = d.Snapshot()
	})
	return cars, err
}

func (mgr *Mgr) Floors() int {
	return mgr.floors
}

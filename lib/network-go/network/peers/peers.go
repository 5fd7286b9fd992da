// Tracks the command clients connected to the rig and reports changes.
package peers

import (
	"sort"
	"sync"
	"time"
)

type PeerUpdate struct {
	Peers []string
	New   string
	Lost  []string
}

type Tracker struct {
	mtx          sync.Mutex
	lastSeen     map[string]time.Time
	peerUpdateCh chan<- PeerUpdate
}

// NewTracker reports every change on peerUpdateCh. Updates are dropped if nobody
// is receiving; a nil channel disables reporting.
func NewTracker(peerUpdateCh chan<- PeerUpdate) *Tracker {
	return &Tracker{
		lastSeen:     make(map[string]time.Time),
		peerUpdateCh: peerUpdateCh,
	}
}

func (t *Tracker) Join(id string) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if _, exists := t.lastSeen[id]; exists {
		return
	}
	t.lastSeen[id] = time.Now()
	t.send(PeerUpdate{New: id, Lost: []string{}})
}

// Touch marks id as active.
func (t *Tracker) Touch(id string) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if _, exists := t.lastSeen[id]; exists {
		t.lastSeen[id] = time.Now()
	}
}

func (t *Tracker) Leave(id string) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if _, exists := t.lastSeen[id]; !exists {
		return
	}
	delete(t.lastSeen, id)
	t.send(PeerUpdate{Lost: []string{id}})
}

// Peers returns the sorted ids of all connected clients.
func (t *Tracker) Peers() []string {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.sortedPeers()
}

// LastSeen returns when id last sent a command.
func (t *Tracker) LastSeen(id string) (time.Time, bool) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	seen, ok := t.lastSeen[id]
	return seen, ok
}

func (t *Tracker) sortedPeers() []string {
	peers := make([]string, 0, len(t.lastSeen))
	for k := range t.lastSeen {
		peers = append(peers, k)
	}
	sort.Strings(peers)
	return peers
}

func (t *Tracker) send(p PeerUpdate) {
	if t.peerUpdateCh == nil {
		return
	}
	p.Peers = t.sortedPeers()
	select {
	case t.peerUpdateCh <- p:
	default:
	}
}

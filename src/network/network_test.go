package network

import (
	"bufio"
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"elevrig/lib/network-go/network/peers"
	"elevrig/src/cmdline"
	"elevrig/src/types"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type stubRig struct {
	pending types.PendingRequest
}

func (r *stubRig) Assign(pickup, dropoff int) int {
	r.pending = types.PendingRequest{Pickup: pickup, Dropoff: dropoff}
	return 0
}
func (r *stubRig) Pending() types.PendingRequest  { return r.pending }
func (r *stubRig) Snapshot() ([]types.Car, error) { return []types.Car{{Floor: 2}}, nil }
func (r *stubRig) Floors() int                    { return 8 }

func startServer(t *testing.T) (*Server, chan peers.PeerUpdate, <-chan error) {
	t.Helper()
	peerUpdateCh := make(chan peers.PeerUpdate, 8)
	server, err := Listen("127.0.0.1:0", peerUpdateCh)
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ctx, cmdline.NewHandler(&stubRig{}))
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-errCh:
		case <-time.After(2 * time.Second):
			t.Error("Serve did not return after cancel")
		}
	})
	return server, peerUpdateCh, errCh
}

func dial(t *testing.T, server *Server) (net.Conn, *bufio.Reader) {
	t.Helper()
	conn, err := net.Dial("tcp", server.Addr().String())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetDeadline(time.Now().Add(2 * time.Second))
	return conn, bufio.NewReader(conn)
}

func waitUpdate(t *testing.T, ch <-chan peers.PeerUpdate) peers.PeerUpdate {
	t.Helper()
	select {
	case update := <-ch:
		return update
	case <-time.After(2 * time.Second):
		t.Fatal("no peer update")
		return peers.PeerUpdate{}
	}
}

func TestCommandRoundTrip(t *testing.T) {
	server, _, _ := startServer(t)
	conn, reader := dial(t, server)

	exchanges := []struct {
		send     string
		expected string
	}{
		{"UP,1,5\r\n", "Request UP from 1 to 5\r\n"},
		{"GETuserFloor\r\n", "userFloor: 1\r\n"},
		{"\r\nGETuserReq\n", "userReq: 5\r\n"},
		{"GETCurrFloor,0\r\n", "CurrFloor0: 2\r\n"},
		{"bogus\r\n", cmdline.ReplyUnknown},
	}
	for _, ex := range exchanges {
		if _, err := conn.Write([]byte(ex.send)); err != nil {
			t.Fatalf("Write(%q) error = %v", ex.send, err)
		}
		reply, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("reading reply to %q: %v", ex.send, err)
		}
		if reply != ex.expected {
			t.Errorf("reply to %q = %q, expected %q", ex.send, reply, ex.expected)
		}
	}
}

func TestBroadcastAndPeerUpdates(t *testing.T) {
	server, peerUpdateCh, _ := startServer(t)

	connA, readerA := dial(t, server)
	first := waitUpdate(t, peerUpdateCh)
	_, readerB := dial(t, server)
	second := waitUpdate(t, peerUpdateCh)

	if first.New == "" || second.New == "" || len(second.Peers) != 2 {
		t.Fatalf("peer updates = %+v, %+v", first, second)
	}
	if got := server.Peers(); len(got) != 2 {
		t.Errorf("Peers() = %v, expected 2 clients", got)
	}

	line := "UP,0,3\r\n"
	if n, err := server.Write([]byte(line)); err != nil || n != len(line) {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	for name, reader := range map[string]*bufio.Reader{"A": readerA, "B": readerB} {
		got, err := reader.ReadString('\n')
		if err != nil || got != line {
			t.Errorf("client %s got %q, %v, expected %q", name, got, err, line)
		}
	}

	connA.Close()
	lost := waitUpdate(t, peerUpdateCh)
	if len(lost.Lost) != 1 || lost.Lost[0] != first.New {
		t.Errorf("lost update = %+v, expected %s lost", lost, first.New)
	}
}

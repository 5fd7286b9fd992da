package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog/log"

	"elevrig/lib/network-go/network/peers"
	"elevrig/src/cmdline"
	"elevrig/src/config"
)

// Server accepts command clients over TCP.
//   - every received line is handled by the command handler and answered on the same connection
//   - everything written to the server (movement lines) is sent to all connected clients
type Server struct {
	ln    net.Listener
	peers *peers.Tracker

	mtx     sync.Mutex
	clients map[string]chan []byte
}

func Listen(addr string, peerUpdateCh chan<- peers.PeerUpdate) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &Server{
		ln:      ln,
		peers:   peers.NewTracker(peerUpdateCh),
		clients: make(map[string]chan []byte),
	}, nil
}

func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

func (s *Server) Peers() []string {
	return s.peers.Peers()
}

// Serve accepts connections until ctx is cancelled. Lines from every client are passed to handler.
func (s *Server) Serve(ctx context.Context, handler *cmdline.Handler) error {
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()
	log.Info().Stringer("addr", s.ln.Addr()).Msg("Command server listening")

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.serveConn(ctx, conn, handler)
		}()
	}
}

// Write broadcasts p to every connected client. Clients that are not keeping up miss the message.
func (s *Server) Write(p []byte) (int, error) {
	msg := make([]byte, len(p))
	copy(msg, p)

	s.mtx.Lock()
	defer s.mtx.Unlock()
	for id, txCh := range s.clients {
		select {
		case txCh <- msg:
		default:
			log.Warn().Str("client", id).Msg("Client transmit buffer full, dropping message")
		}
	}
	return len(p), nil
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn, handler *cmdline.Handler) {
	id := conn.RemoteAddr().String()
	txCh := make(chan []byte, config.ClientTxBuffer)

	s.mtx.Lock()
	s.clients[id] = txCh
	s.mtx.Unlock()
	s.peers.Join(id)

	connCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.mtx.Lock()
		delete(s.clients, id)
		s.mtx.Unlock()
		s.peers.Leave(id)
		conn.Close()
	}()

	go transmit(connCtx, cancel, conn, txCh)
	go func() {
		<-connCtx.Done()
		conn.Close()
	}()

	lineBuf := cmdline.NewLineBuffer(config.LineBufferSize)
	buf := make([]byte, config.LineBufferSize)
	for {
		n, err := conn.Read(buf)
		for _, line := range lineBuf.Feed(buf[:n]) {
			s.peers.Touch(id)
			reply := handler.Handle(line)
			select {
			case txCh <- []byte(reply):
			case <-connCtx.Done():
				return
			}
		}
		if err != nil {
			log.Debug().Err(err).Str("client", id).Msg("Client disconnected")
			return
		}
	}
}

func transmit(ctx context.Context, cancel context.CancelFunc, conn net.Conn, txCh <-chan []byte) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-txCh:
			if _, err := conn.Write(msg); err != nil {
				log.Debug().Err(err).Stringer("client", conn.RemoteAddr()).Msg("Write failed")
				return
			}
		}
	}
}

package timer

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type TimerAction int

const (
	Start TimerAction = iota
	Stop
)

// Ticker sends a tick on tickCh every period while it is started.
// It starts stopped; Start and Stop on action switch it on and off.
// Returns when ctx is cancelled.
func Ticker(ctx context.Context, period time.Duration, tickCh chan<- time.Time, action <-chan TimerAction) {
	ticker := time.NewTicker(period)
	ticker.Stop()
	defer ticker.Stop()

	running := false
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-action:
			switch a {
			case Start:
				if !running {
					ticker.Reset(period)
					running = true
					log.Debug().Dur("period", period).Msg("Tick source started")
				}
			case Stop:
				ticker.Stop()
				running = false
				log.Debug().Msg("Tick source stopped")
			}
		case t := <-ticker.C:
			select {
			case tickCh <- t:
			case <-ctx.Done():
				return
			}
		}
	}
}

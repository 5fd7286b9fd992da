// Interactive keyboard console for a rig running in a terminal.
package console

import (
	"context"
	"fmt"
	"io"

	"github.com/eiannone/keyboard"
	"github.com/rs/zerolog/log"

	"elevrig/src/types"
	"elevrig/src/utils"
)

// Rig is the read side of the dispatcher the console needs.
type Rig interface {
	Pending() types.PendingRequest
	Snapshot() ([]types.Car, error)
}

// Run reads single key presses until ctx is cancelled or the user quits.
//   - 's' prints the status of every car
//   - 'q', Esc and Ctrl-C call quit
func Run(ctx context.Context, out io.Writer, rigID string, rig Rig, quit func()) error {
	keysEvents, err := keyboard.GetKeys(10)
	if err != nil {
		return fmt.Errorf("open keyboard: %w", err)
	}
	defer keyboard.Close()

	fmt.Fprint(out, "Press 's' for status, 'q' to quit\r\n")
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-keysEvents:
			if event.Err != nil {
				return fmt.Errorf("read key: %w", event.Err)
			}
			if handleKey(out, rigID, rig, event.Rune, event.Key) {
				quit()
				return nil
			}
		}
	}
}

// handleKey reacts to one key press and reports whether the user asked to quit.
func handleKey(out io.Writer, rigID string, rig Rig, ch rune, key keyboard.Key) bool {
	switch {
	case key == keyboard.KeyCtrlC || key == keyboard.KeyEsc || ch == 'q' || ch == 'Q':
		return true
	case ch == 's' || ch == 'S':
		cars, err := rig.Snapshot()
		if err != nil {
			log.Error().Err(err).Msg("Status unavailable")
			return false
		}
		utils.PrintStatus(out, rigID, cars, rig.Pending())
	}
	return false
}

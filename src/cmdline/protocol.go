// Text command protocol of the rig. Each request is one line, each reply ends with "\r\n".
//
//	UP,<from>,<to> | DOWN,<from>,<to>   call a car to <from>, then carry the rider to <to>
//	GETuserFloor                        pending pickup floor
//	GETuserReq                          pending dropoff floor
//	GETCurrFloor,<car>                  current floor of a car
//	GETTotalWork,<car>                  accumulated work of a car
//	GETStatus                           one line per car
package cmdline

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"elevrig/src/types"
	"elevrig/src/utils"
)

const (
	ReplyInvalidCar    = "Invalid car\r\n"
	ReplyInvalidFloors = "Invalid floor values\r\n"
	ReplyInvalidFormat = "Invalid command format\r\n"
	ReplyUnknown       = "Unknown command\r\n"
	ReplyUnavailable   = "Status unavailable\r\n"
)

// Rig is the part of the dispatcher the protocol needs.
type Rig interface {
	Assign(pickup, dropoff int) int
	Pending() types.PendingRequest
	Snapshot() ([]types.Car, error)
	Floors() int
}

type Handler struct {
	rig Rig
}

func NewHandler(rig Rig) *Handler {
	return &Handler{rig: rig}
}

// Handle executes one command line and returns the reply.
// Only UP and DOWN change rig state; every GET is read-only.
func (h *Handler) Handle(line string) string {
	switch {
	case line == "GETuserFloor":
		return fmt.Sprintf("userFloor: %d\r\n", h.rig.Pending().Pickup)
	case line == "GETuserReq":
		return fmt.Sprintf("userReq: %d\r\n", h.rig.Pending().Dropoff)
	case strings.HasPrefix(line, "GETCurrFloor,"):
		return h.carQuery(line[len("GETCurrFloor,"):], func(i int, car types.Car) string {
			return fmt.Sprintf("CurrFloor%d: %d\r\n", i, car.Floor)
		})
	case strings.HasPrefix(line, "GETTotalWork,"):
		return h.carQuery(line[len("GETTotalWork,"):], func(i int, car types.Car) string {
			return fmt.Sprintf("TotalWork%d: %d\r\n", i, car.TotalWork)
		})
	case line == "GETStatus":
		return h.status()
	case strings.HasPrefix(line, "UP,") || strings.HasPrefix(line, "DOWN,"):
		return h.call(line)
	default:
		log.Debug().Str("line", line).Msg("Unknown command")
		return ReplyUnknown
	}
}

func (h *Handler) carQuery(arg string, reply func(i int, car types.Car) string) string {
	cars, err := h.rig.Snapshot()
	if err != nil {
		log.Error().Err(err).Msg("Car query failed")
		return ReplyUnavailable
	}
	i := atoi(arg)
	if i < 0 || i >= len(cars) {
		return ReplyInvalidCar
	}
	return reply(i, cars[i])
}

func (h *Handler) status() string {
	cars, err := h.rig.Snapshot()
	if err != nil {
		log.Error().Err(err).Msg("Status query failed")
		return ReplyUnavailable
	}
	var sb strings.Builder
	for i, car := range cars {
		sb.WriteString(utils.FormatCar(i, car))
		sb.WriteString("\r\n")
	}
	return sb.String()
}

func (h *Handler) call(line string) string {
	dir, from, to, ok := parseCall(line)
	if !ok {
		return ReplyInvalidFormat
	}
	floors := h.rig.Floors()
	if from < 0 || from >= floors || to < 0 || to >= floors || from == to {
		return ReplyInvalidFloors
	}
	car := h.rig.Assign(from, to)
	log.Debug().Str("dir", dir).Int("from", from).Int("to", to).Int("car", car).Msg("Call accepted")
	return fmt.Sprintf("Request %s from %d to %d\r\n", dir, from, to)
}

// parseCall splits "<dir>,<from>,<to>". Anything after <to> is ignored.
func parseCall(line string) (dir string, from, to int, ok bool) {
	dir, rest, found := strings.Cut(line, ",")
	if !found || dir == "" || len(dir) > 5 {
		return "", 0, 0, false
	}
	from, rest, ok = scanInt(rest)
	if !ok || !strings.HasPrefix(rest, ",") {
		return "", 0, 0, false
	}
	to, _, ok = scanInt(rest[1:])
	if !ok {
		return "", 0, 0, false
	}
	return dir, from, to, true
}

// scanInt reads a decimal integer with optional leading blanks and sign from the start of s.
func scanInt(s string) (n int, rest string, ok bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		if n > 1<<20 {
			n = 1 << 20
		}
		i++
	}
	if i == start {
		return 0, s, false
	}
	if neg {
		n = -n
	}
	return n, s[i:], true
}

// atoi is lenient: input without a leading number reads as 0.
func atoi(s string) int {
	n, _, _ := scanInt(s)
	return n
}

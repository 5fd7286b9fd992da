// This file defines the output side of the rig hardware.
// MotorPort writes movement lines to the car controllers, Panel drives the floor indicator LEDs.
package elevio

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"elevrig/src/config"
	"elevrig/src/types"
)

// FormatMotorCmd returns the wire line for cmd, or "" if the car does not need to move.
func FormatMotorCmd(cmd types.MotorCmd) string {
	switch cmd.Dir {
	case types.MD_Up:
		return fmt.Sprintf("UP,%d,%d\r\n", cmd.Car, cmd.Floor)
	case types.MD_Down:
		return fmt.Sprintf("Down,%d,%d\r\n", cmd.Car, cmd.Floor)
	default:
		return ""
	}
}

// MotorPort sends every movement command to all of its writers. Sends are fire-and-forget.
type MotorPort struct {
	mtx sync.Mutex
	w   io.Writer
}

func NewMotorPort(writers ...io.Writer) *MotorPort {
	return &MotorPort{w: io.MultiWriter(writers...)}
}

func (port *MotorPort) MoveCar(cmd types.MotorCmd) {
	line := FormatMotorCmd(cmd)
	if line == "" {
		return
	}
	port.mtx.Lock()
	defer port.mtx.Unlock()
	if _, err := io.WriteString(port.w, line); err != nil {
		log.Warn().Err(err).Int("car", cmd.Car).Msg("Movement command not delivered")
	}
}

type GPIOPort int

const (
	GPIOA GPIOPort = iota
	GPIOB
	numPorts
)

func (p GPIOPort) String() string {
	return [...]string{"GPIOA", "GPIOB"}[p]
}

type Pin struct {
	Port GPIOPort
	Bit  uint8
}

// PinLayout maps (car, floor) to the LED pin of the rig board.
// Car 2 has no room left on port B and borrows A8 for its top floor.
var PinLayout = [config.MaxCars][config.MaxFloors]Pin{
	{{GPIOA, 0}, {GPIOA, 1}, {GPIOA, 2}, {GPIOA, 3}, {GPIOA, 4}, {GPIOA, 5}, {GPIOA, 6}, {GPIOA, 7}},
	{{GPIOB, 0}, {GPIOB, 1}, {GPIOB, 2}, {GPIOB, 3}, {GPIOB, 4}, {GPIOB, 5}, {GPIOB, 6}, {GPIOB, 7}},
	{{GPIOB, 8}, {GPIOB, 9}, {GPIOB, 10}, {GPIOB, 12}, {GPIOB, 13}, {GPIOB, 14}, {GPIOB, 15}, {GPIOA, 8}},
}

// Panel keeps the output register image of the indicator LEDs.
// Each car has exactly one lit LED, the one of its current floor.
type Panel struct {
	mtx   sync.Mutex
	ports [numPorts]uint16
}

func NewPanel() *Panel {
	return &Panel{}
}

// SetIndicator lights the LED of floor for car and clears the car's other LEDs.
func (panel *Panel) SetIndicator(car, floor int) {
	if car < 0 || car >= config.MaxCars || floor < 0 || floor >= config.MaxFloors {
		log.Warn().Int("car", car).Int("floor", floor).Msg("Indicator out of range")
		return
	}
	panel.mtx.Lock()
	defer panel.mtx.Unlock()
	for _, pin := range PinLayout[car] {
		panel.ports[pin.Port] &^= 1 << pin.Bit
	}
	pin := PinLayout[car][floor]
	panel.ports[pin.Port] |= 1 << pin.Bit
	log.Debug().Int("car", car).Int("floor", floor).Stringer("port", pin.Port).Uint8("pin", pin.Bit).Msg("Indicator set")
}

// Port returns the output register image of port.
func (panel *Panel) Port(port GPIOPort) uint16 {
	panel.mtx.Lock()
	defer panel.mtx.Unlock()
	return panel.ports[port]
}

// LitFloor returns the floor lit for car, or -1 if none is.
func (panel *Panel) LitFloor(car int) int {
	if car < 0 || car >= config.MaxCars {
		return -1
	}
	panel.mtx.Lock()
	defer panel.mtx.Unlock()
	for floor, pin := range PinLayout[car] {
		if panel.ports[pin.Port]&(1<<pin.Bit) != 0 {
			return floor
		}
	}
	return -1
}

package utils

import (
	"fmt"
	"io"

	"elevrig/src/types"
)

func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// FormatCar renders one car as a single status line without line ending.
func FormatCar(i int, car types.Car) string {
	state := "Idle"
	if car.Moving {
		state = fmt.Sprintf("%s->%d", types.DirectionTo(car.Floor, car.Target), car.Target)
	}
	return fmt.Sprintf("Car%d: floor=%d state=%s work=%d", i, car.Floor, state, car.TotalWork)
}

// PrintStatus is called from the console when the user asks for the rig state
func PrintStatus(w io.Writer, rigID string, cars []types.Car, pending types.PendingRequest) {
	fmt.Fprintf(w, "\rRig: %s | userFloor: %d | userReq: %d\r\n", rigID, pending.Pickup, pending.Dropoff)
	for i, car := range cars {
		fmt.Fprintf(w, "  %s\r\n", FormatCar(i, car))
	}
}

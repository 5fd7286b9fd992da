// Contains the per-car movement primitives used by the dispatcher.
package elev

import (
	"time"

	"elevrig/src/types"
	"elevrig/src/utils"
)

// StartLeg points the car at target and returns the direction it has to travel.
//   - the car is marked as moving and its step timer is restarted
//   - the distance to target is added to TotalWork
//   - returns MD_Stop if the car already is at target
func StartLeg(car *types.Car, target int, step time.Duration) types.MotorDirection {
	dir := types.DirectionTo(car.Floor, target)
	car.TotalWork += utils.Abs(car.Floor - target)
	car.Target = target
	car.Moving = true
	car.Elapsed = 0
	car.StepDuration = step
	return dir
}

// Advance lets one tick period pass for the car.
// stepped is true when the car completed a floor step, arrived when that step ended at Target.
// A car that is not moving is left untouched.
func Advance(car *types.Car, period time.Duration) (stepped, arrived bool) {
	if !car.Moving {
		return false, false
	}
	car.Elapsed += period
	if car.Elapsed < car.StepDuration {
		return false, false
	}
	car.Elapsed = 0
	car.Floor += int(types.DirectionTo(car.Floor, car.Target))
	return true, car.Floor == car.Target
}

// Stop leaves the car idle at its current floor.
func Stop(car *types.Car) {
	car.Moving = false
	car.Elapsed = 0
	car.Ride = nil
}

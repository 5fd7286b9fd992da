package types

import "time"

type MotorDirection int

const (
	MD_Up   MotorDirection = 1
	MD_Down MotorDirection = -1
	MD_Stop MotorDirection = 0
)

func (d MotorDirection) String() string {
	switch d {
	case MD_Up:
		return "Up"
	case MD_Down:
		return "Down"
	default:
		return "Stop"
	}
}

// DirectionTo returns the direction a car at floor from must travel to reach floor to.
func DirectionTo(from, to int) MotorDirection {
	switch {
	case from < to:
		return MD_Up
	case from > to:
		return MD_Down
	default:
		return MD_Stop
	}
}

// PendingRequest is a rider waiting at Pickup who wants to go to Dropoff.
type PendingRequest struct {
	Pickup  int
	Dropoff int
}

// Car is the state of one elevator car.
type Car struct {
	Floor        int
	Target       int
	Moving       bool
	StepDuration time.Duration // travel time for one floor
	Elapsed      time.Duration // time spent travelling toward the next floor
	TotalWork    int           // sum of floor distances ever assigned, never decreases
	Ride         *PendingRequest
}

// MotorCmd starts a leg: car Car travels in direction Dir toward Floor.
type MotorCmd struct {
	Dir   MotorDirection
	Car   int
	Floor int
}

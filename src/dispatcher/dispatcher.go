package dispatcher

import (
	"time"

	"github.com/rs/zerolog/log"

	"elevrig/src/config"
	"elevrig/src/elev"
	"elevrig/src/types"
)

// MotorSink receives a command every time a car starts a leg.
type MotorSink interface {
	MoveCar(cmd types.MotorCmd)
}

// IndicatorSink receives the floor of a car every time it completes a floor step.
type IndicatorSink interface {
	SetIndicator(car, floor int)
}

type nopSink struct{}

func (nopSink) MoveCar(types.MotorCmd) {}
func (nopSink) SetIndicator(int, int)  {}

// Dispatcher assigns calls to cars and advances the cars on every tick.
// It is not safe for concurrent use; run it behind a Mgr.
type Dispatcher struct {
	reg        *elev.Registry
	floors     int
	tickPeriod time.Duration
	step       time.Duration
	mode       config.PendingMode
	pending    types.PendingRequest
	motor      MotorSink
	indicator  IndicatorSink
}

// New creates a dispatcher with cfg.Cars idle cars at floor 0.
// A nil sink discards its output.
func New(cfg config.Config, motor MotorSink, indicator IndicatorSink) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg, err := elev.NewRegistry(cfg.Cars, cfg.StepDuration)
	if err != nil {
		return nil, err
	}
	if motor == nil {
		motor = nopSink{}
	}
	if indicator == nil {
		indicator = nopSink{}
	}
	return &Dispatcher{
		reg:        reg,
		floors:     cfg.Floors,
		tickPeriod: cfg.TickPeriod,
		step:       cfg.StepDuration,
		mode:       cfg.PendingMode,
		motor:      motor,
		indicator:  indicator,
	}, nil
}

// Assign hands the call (pickup -> dropoff) to the car with the lowest score and
// starts its pickup leg. Returns the chosen car, or -1 if pickup == dropoff.
// Floors are expected to be in range; the command protocol filters them.
func (d *Dispatcher) Assign(pickup, dropoff int) int {
	if pickup == dropoff {
		log.Debug().Int("floor", pickup).Msg("Ignoring call with pickup equal to dropoff")
		return -1
	}

	assignee := findAssignee(d.reg, pickup)
	car := d.reg.Car(assignee)
	d.startLeg(assignee, car, pickup)
	if d.mode == config.PendingPerCar {
		car.Ride = &types.PendingRequest{Pickup: pickup, Dropoff: dropoff}
	}
	d.pending = types.PendingRequest{Pickup: pickup, Dropoff: dropoff}

	log.Info().
		Int("car", assignee).
		Int("pickup", pickup).
		Int("dropoff", dropoff).
		Int("totalWork", car.TotalWork).
		Msg("Call assigned")
	return assignee
}

// OnTick advances every moving car by one tick period.
//   - a car completing a floor step refreshes its indicator
//   - a car arriving at the pending pickup floor continues to the dropoff floor
//   - any other arrival leaves the car idle
func (d *Dispatcher) OnTick() {
	d.reg.ForEach(func(i int, car *types.Car) {
		stepped, arrived := elev.Advance(car, d.tickPeriod)
		if !stepped {
			return
		}
		if arrived {
			if dropoff, ok := d.takeRide(car); ok {
				log.Info().Int("car", i).Int("floor", car.Floor).Int("dropoff", dropoff).Msg("Rider picked up")
				d.startLeg(i, car, dropoff)
			} else {
				elev.Stop(car)
				log.Info().Int("car", i).Int("floor", car.Floor).Msg("Car idle")
			}
		}
		d.indicator.SetIndicator(i, car.Floor)
	})
}

// RefreshIndicators pushes the current floor of every car to the indicator sink.
func (d *Dispatcher) RefreshIndicators() {
	d.reg.ForEach(func(i int, car *types.Car) {
		d.indicator.SetIndicator(i, car.Floor)
	})
}

// takeRide checks whether a car that just arrived picks up a rider, and consumes the ride if so.
//   - shared mode: any car arriving at the pending pickup floor takes the ride
//   - per-car mode: only the car the ride was assigned to takes it
func (d *Dispatcher) takeRide(car *types.Car) (dropoff int, ok bool) {
	switch d.mode {
	case config.PendingPerCar:
		ride := car.Ride
		if ride == nil || car.Floor != ride.Pickup || ride.Pickup == ride.Dropoff {
			return 0, false
		}
		car.Ride = nil
		if d.pending == *ride {
			d.pending.Pickup = ride.Dropoff
		}
		return ride.Dropoff, true
	default:
		if car.Floor != d.pending.Pickup || d.pending.Pickup == d.pending.Dropoff {
			return 0, false
		}
		d.pending.Pickup = d.pending.Dropoff
		return d.pending.Dropoff, true
	}
}

func (d *Dispatcher) startLeg(i int, car *types.Car, target int) {
	dir := elev.StartLeg(car, target, d.step)
	if dir == types.MD_Stop {
		return
	}
	d.motor.MoveCar(types.MotorCmd{Dir: dir, Car: i, Floor: target})
}

// Pending returns the rig-wide pending request.
func (d *Dispatcher) Pending() types.PendingRequest {
	return d.pending
}

func (d *Dispatcher) Snapshot() ([]types.Car, error) {
	return d.reg.Snapshot()
}

func (d *Dispatcher) Floors() int {
	return d.floors
}

func (d *Dispatcher) NumCars() int {
	return d.reg.Len()
}

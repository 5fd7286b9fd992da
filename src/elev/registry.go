package elev

import (
	"fmt"
	"time"

	"github.com/tiendc/go-deepcopy"

	"elevrig/src/config"
	"elevrig/src/types"
)

// Registry holds every car of the rig in a fixed-capacity array.
// Cars are created once and live for the lifetime of the process.
type Registry struct {
	cars    [config.MaxCars]types.Car
	numCars int
}

// NewRegistry creates numCars idle cars parked at floor 0.
func NewRegistry(numCars int, step time.Duration) (*Registry, error) {
	if numCars < 1 {
		return nil, config.ErrNoCars
	}
	if numCars > config.MaxCars {
		return nil, fmt.Errorf("%w: got %d", config.ErrTooManyCars, numCars)
	}
	reg := &Registry{numCars: numCars}
	for i := 0; i < numCars; i++ {
		reg.cars[i] = types.Car{StepDuration: step}
	}
	return reg, nil
}

func (reg *Registry) Len() int {
	return reg.numCars
}

func (reg *Registry) Valid(car int) bool {
	return car >= 0 && car < reg.numCars
}

// Car returns the live record of car i. Panics if i is out of range.
func (reg *Registry) Car(i int) *types.Car {
	if !reg.Valid(i) {
		panic(fmt.Sprintf("car index %d out of range [0,%d)", i, reg.numCars))
	}
	return &reg.cars[i]
}

// ForEach calls action for every car in index order.
func (reg *Registry) ForEach(action func(i int, car *types.Car)) {
	for i := 0; i < reg.numCars; i++ {
		action(i, &reg.cars[i])
	}
}

// Snapshot returns a deep copy of all cars. Mutating it does not affect the registry.
func (reg *Registry) Snapshot() ([]types.Car, error) {
	var snapshot []types.Car
	if err := deepcopy.Copy(&snapshot, reg.cars[:reg.numCars]); err != nil {
		return nil, fmt.Errorf("snapshot cars: %w", err)
	}
	return snapshot, nil
}

package dispatcher

import (
	"elevrig/src/elev"
	"elevrig/src/types"
	"elevrig/src/utils"
)

// score is the cost of letting car serve a rider waiting at pickup.
//   - distance from the car to the pickup floor
//   - plus half of the work the car has already been given (truncated)
func score(car *types.Car, pickup int) int {
	return utils.Abs(car.Floor-pickup) + car.TotalWork/2
}

// findAssignee returns the car with the strictly lowest score.
// Cars are scanned in index order, so ties go to the lowest index.
func findAssignee(reg *elev.Registry, pickup int) int {
	assignee := -1
	lowestScore := 0
	reg.ForEach(func(i int, car *types.Car) {
		s := score(car, pickup)
		if assignee == -1 || s < lowestScore {
			assignee = i
			lowestScore = s
		}
	})
	return assignee
}

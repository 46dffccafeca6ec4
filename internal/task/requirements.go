package task

import "github.com/mabuhanifa/aahaar-backend/internal/model"

// Requirement names an inventory item and how much of it one task of a
// given type consumes on completion.
type Requirement struct {
	ItemName string
	Quantity float64
}

// inventoryRequirements maps each task type to the stock it consumes.
// Static configuration, fixed at startup; record_media tasks consume
// nothing.
var inventoryRequirements = map[string][]Requirement{
	model.TaskTypePrepareFood: {
		{ItemName: "Rice", Quantity: 1},
		{ItemName: "Lentils", Quantity: 0.5},
	},
	model.TaskTypeDeliverRation: {
		{ItemName: "Ration Pack", Quantity: 1},
	},
}

// RequirementsFor returns the inventory requirements for a task type,
// in deduction order.
func RequirementsFor(taskType string) []Requirement {
	return inventoryRequirements[taskType]
}

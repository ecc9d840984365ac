package store

import (
	"math/rand/v2"

	"github.com/tailored-agentic-units/tasks/task"
)

// idDigits is the number of decimal digits drawn for a random id.
const idDigits = 6

// IDGenerator returns the id for a task about to be inserted. existing is the
// current task list, read-only.
type IDGenerator func(existing []task.Task) int64

// RandomIDs draws six independent uniform decimal digits and reads them as an
// integer, so leading zeros shrink the value (000042 is 42). Collisions with
// existing ids are possible and are not checked.
func RandomIDs(_ []task.Task) int64 {
	var id int64
	for range idDigits {
		id = id*10 + int64(rand.IntN(10))
	}
	return id
}

// SequentialIDs returns one more than the largest existing id, starting at 1.
// Ids it returns never collide within one collection.
func SequentialIDs(existing []task.Task) int64 {
	var highest int64
	for _, t := range existing {
		highest = max(highest, t.ID)
	}
	return highest + 1
}

package task

// Collection is the unit persisted under one storage slot.
type Collection struct {
	Tasks []Task `json:"tasks"`
}

// Empty returns a collection with no tasks. Its task list is non-nil so it
// serializes as {"tasks":[]}.
func Empty() Collection {
	return Collection{Tasks: []Task{}}
}

// Clone deep-copies c.
func (c Collection) Clone() Collection {
	return Collection{Tasks: CloneAll(c.Tasks)}
}

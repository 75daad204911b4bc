package components

import (
	"slices"
	"time"
)

// Status is the completion state of a todo.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Tag labels a todo.
type Tag string

const (
	TagWork     Tag = "work"
	TagPersonal Tag = "personal"
	TagUrgent   Tag = "urgent"
	TagLater    Tag = "later"
)

// Todo is one task.
type Todo struct {
	ID          string
	Title       string
	Description string
	Status      Status
	Tags        []Tag
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasTag reports whether the todo carries tag.
func (t *Todo) HasTag(tag Tag) bool {
	return slices.Contains(t.Tags, tag)
}

// Done reports whether the todo is completed.
func (t *Todo) Done() bool { return t.Status == StatusCompleted }

// TodoStats summarizes the store.
type TodoStats struct {
	Total     int
	Pending   int
	Completed int
	ByTag     map[Tag]int
}

// TodoStore is what the panels read from.
type TodoStore interface {
	Get(id string) *Todo
	List(status *Status, tags []Tag) []*Todo
	Stats() TodoStats
}

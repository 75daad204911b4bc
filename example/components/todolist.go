package components

import (
	"github.com/pthm/hxmarkup"
)

// TodoList is a panel listing todos, optionally filtered by status.
type TodoList struct {
	*hxmarkup.Panel
}

// NewTodoList creates the list panel. An empty filter lists everything.
func NewTodoList(id string, store TodoStore, filter Status) *TodoList {
	var status *Status
	if filter != "" {
		status = &filter
	}
	todos := store.List(status, nil)

	c := &TodoList{Panel: hxmarkup.NewPanel(id, "TodoList")}
	c.Add(hxmarkup.NewRepeater("todos", todos, populateTodo))

	empty := hxmarkup.NewLabel("empty", "Nothing to do.")
	empty.SetVisible(len(todos) == 0)
	c.Add(empty)
	return c
}

func populateTodo(item *hxmarkup.Item, t *Todo) {
	if t.Done() {
		item.Modify(hxmarkup.AppendAttr("class", "done"))
	}
	link := hxmarkup.NewContainer("link", hxmarkup.NewLabel("title", t.Title))
	link.Modify(hxmarkup.SetAttr("href", "/task/"+t.ID))

	desc := hxmarkup.NewLabel("description", t.Description)
	desc.SetVisible(t.Description != "")

	item.Add(link, desc, hxmarkup.NewRepeater("tags", t.Tags, func(item *hxmarkup.Item, tag Tag) {
		label := hxmarkup.NewLabel("tag", string(tag))
		label.Modify(hxmarkup.AppendAttr("class", "tag-"+string(tag)))
		item.Add(label)
	}))
}

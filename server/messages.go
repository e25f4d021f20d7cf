package server

import (
	"github.com/amonks/tasklab/derived"
	"github.com/amonks/tasklab/task"
)

type tasksListRequest struct{}

type tasksFindRequest struct {
	Filter task.Filter `json:"filter"`
}

type tasksShowRequest struct {
	ID string `json:"id"`
}

type tasksCreateRequest struct {
	Task task.Input `json:"task"`
}

type tasksUpdateRequest struct {
	ID    string     `json:"id"`
	Patch task.Patch `json:"patch"`
}

type tasksDeleteRequest struct {
	ID string `json:"id"`
}

type itemsListRequest struct {
	Query    string `json:"query,omitempty"`
	Category string `json:"category,omitempty"`
}

type itemsShowRequest struct {
	ID string `json:"id"`
}

type deriveRequest struct {
	State derived.State `json:"state"`
}

type emptyRequest struct{}

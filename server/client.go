package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amonks/tasklab/actions"
	"github.com/amonks/tasklab/catalog"
	"github.com/amonks/tasklab/derived"
	"github.com/amonks/tasklab/task"
	"github.com/amonks/tasklab/viewcache"
)

// Client calls server RPCs. Failed results come back as typed errors:
// *task.ValidationError for rejected input and errors matching
// task.ErrTaskNotFound or catalog.ErrItemNotFound for missing records.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the given address or URL.
func NewClient(addr string) *Client {
	baseURL := strings.TrimRight(addr, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return &Client{baseURL: baseURL, client: &http.Client{}}
}

// ListTasks returns every task in insertion order.
func (c *Client) ListTasks(ctx context.Context) ([]task.Task, error) {
	return call[[]task.Task](ctx, c, "/tasks/list", tasksListRequest{})
}

// FindTasks returns tasks matching filter.
func (c *Client) FindTasks(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	return call[[]task.Task](ctx, c, "/tasks/find", tasksFindRequest{Filter: filter})
}

// ShowTask returns the task whose ID starts with prefix.
func (c *Client) ShowTask(ctx context.Context, prefix string) (task.Task, error) {
	return call[task.Task](ctx, c, "/tasks/show", tasksShowRequest{ID: prefix})
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, in task.Input) (task.Task, error) {
	return call[task.Task](ctx, c, "/tasks/create", tasksCreateRequest{Task: in})
}

// UpdateTask merges patch into the task with the given ID.
func (c *Client) UpdateTask(ctx context.Context, id string, patch task.Patch) (task.Task, error) {
	return call[task.Task](ctx, c, "/tasks/update", tasksUpdateRequest{ID: id, Patch: patch})
}

// DeleteTask removes the task with the given ID.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := call[string](ctx, c, "/tasks/delete", tasksDeleteRequest{ID: id})
	return err
}

// ListItems returns catalog items in category matching query.
// An empty category means catalog.CategoryAll.
func (c *Client) ListItems(ctx context.Context, query, category string) ([]catalog.Item, error) {
	return call[[]catalog.Item](ctx, c, "/items/list", itemsListRequest{Query: query, Category: category})
}

// ShowItem returns the catalog item with the given ID.
func (c *Client) ShowItem(ctx context.Context, id string) (catalog.Item, error) {
	result, err := post[catalog.Item](ctx, c, "/items/show", itemsShowRequest{ID: id})
	if err != nil {
		return catalog.Item{}, err
	}
	if result.Kind == actions.KindNotFound {
		return catalog.Item{}, fmt.Errorf("%w: %s", catalog.ErrItemNotFound, id)
	}
	if err := result.Err(); err != nil {
		return catalog.Item{}, err
	}
	return result.Data, nil
}

// Derive computes derived values for state.
func (c *Client) Derive(ctx context.Context, state derived.State) (derived.Values, error) {
	return call[derived.Values](ctx, c, "/state/derive", deriveRequest{State: state})
}

// ViewStats returns the server's view cache counters.
func (c *Client) ViewStats(ctx context.Context) (viewcache.Stats, error) {
	return call[viewcache.Stats](ctx, c, "/views/stats", emptyRequest{})
}

func call[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	result, err := post[T](ctx, c, path, payload)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := result.Err(); err != nil {
		var zero T
		return zero, err
	}
	return result.Data, nil
}

// post sends payload and decodes the Result body. Transport failures and
// malformed requests are returned as errors; failed results are not.
func post[T any](ctx context.Context, c *Client, path string, payload any) (actions.Result[T], error) {
	var result actions.Result[T]

	data, err := json.Marshal(payload)
	if err != nil {
		return result, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return result, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusUnprocessableEntity, http.StatusNotFound, http.StatusInternalServerError:
	default:
		return result, readErrorResponse(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("decode %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK && result.Success {
		return result, fmt.Errorf("server error: %s", resp.Status)
	}
	return result, nil
}

func readErrorResponse(resp *http.Response) error {
	var payload map[string]string
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&payload); err == nil {
		if message, ok := payload["error"]; ok {
			return fmt.Errorf("server error: %s", message)
		}
	}
	return fmt.Errorf("server error: %s", resp.Status)
}

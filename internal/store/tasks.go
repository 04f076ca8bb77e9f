package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/planterm/planterm/internal/api"
	"github.com/planterm/planterm/internal/model"
)

// TaskStore mirrors the server's regular and dynamic task collections.
// After any successful mutation the relevant collection reflects exactly
// the server's returned object for that id; on failure the collection is
// left unchanged, the error is recorded, and the error is returned for
// the caller to render.
type TaskStore struct {
	mu      sync.Mutex
	client  *api.Client
	logger  *zap.Logger
	regular []model.RegularTask
	dynamic []model.DynamicTask
	loading bool
	err     string
}

// NewTaskStore creates a task store over the API client.
func NewTaskStore(client *api.Client, logger *zap.Logger) *TaskStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskStore{client: client, logger: logger}
}

// RegularTasks returns a copy of the regular task collection in server order.
func (t *TaskStore) RegularTasks() []model.RegularTask {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.RegularTask, len(t.regular))
	copy(out, t.regular)
	return out
}

// DynamicTasks returns a copy of the dynamic task collection in server order.
func (t *TaskStore) DynamicTasks() []model.DynamicTask {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.DynamicTask, len(t.dynamic))
	copy(out, t.dynamic)
	return out
}

// PendingTasks returns dynamic tasks not yet completed. Derived on read.
func (t *TaskStore) PendingTasks() []model.DynamicTask {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []model.DynamicTask
	for _, task := range t.dynamic {
		if !task.Completed {
			out = append(out, task)
		}
	}
	return out
}

// CompletedTasks returns completed dynamic tasks. Derived on read.
func (t *TaskStore) CompletedTasks() []model.DynamicTask {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []model.DynamicTask
	for _, task := range t.dynamic {
		if task.Completed {
			out = append(out, task)
		}
	}
	return out
}

// HighPriorityTasks returns pending high-priority dynamic tasks. Derived on read.
func (t *TaskStore) HighPriorityTasks() []model.DynamicTask {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []model.DynamicTask
	for _, task := range t.dynamic {
		if task.Priority == model.PriorityHigh && !task.Completed {
			out = append(out, task)
		}
	}
	return out
}

// Loading reports whether a store operation is in flight.
func (t *TaskStore) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Err returns the last recorded error message, "" when the last
// operation succeeded.
func (t *TaskStore) Err() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// begin starts the operation protocol: loading on, error cleared.
func (t *TaskStore) begin() {
	t.mu.Lock()
	t.loading = true
	t.err = ""
	t.mu.Unlock()
}

// finish ends the operation protocol, recording a message on failure.
func (t *TaskStore) finish(op string, err error, fallback string) {
	t.mu.Lock()
	t.loading = false
	if err != nil {
		t.err = api.ErrorMessage(err, fallback)
	}
	t.mu.Unlock()
	if err != nil {
		t.logger.Warn(op, zap.Error(err))
	}
}

// FetchRegularTasks replaces the regular collection with the server's
// response.
func (t *TaskStore) FetchRegularTasks(ctx context.Context, filter *model.RegularTaskFilter) error {
	t.begin()
	tasks, err := t.client.RegularTasks(ctx, filter)
	t.finish("fetch regular tasks failed", err, "Failed to fetch regular tasks")
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.regular = tasks
	t.mu.Unlock()
	return nil
}

// AddRegularTask creates a regular task and appends the server's copy.
func (t *TaskStore) AddRegularTask(ctx context.Context, params model.CreateRegularTaskParams) (*model.RegularTask, error) {
	t.begin()
	task, err := t.client.CreateRegularTask(ctx, params)
	t.finish("add regular task failed", err, "Failed to add regular task")
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.regular = append(t.regular, *task)
	t.mu.Unlock()
	return task, nil
}

// UpdateRegularTaskByID applies a partial update and replaces the local
// copy in place. An id absent from the collection still resolves with
// the server's object but inserts nothing.
func (t *TaskStore) UpdateRegularTaskByID(ctx context.Context, id int64, params model.UpdateRegularTaskParams) (*model.RegularTask, error) {
	t.begin()
	task, err := t.client.UpdateRegularTask(ctx, id, params)
	t.finish("update regular task failed", err, "Failed to update regular task")
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	for i := range t.regular {
		if t.regular[i].ID == id {
			t.regular[i] = *task
			break
		}
	}
	t.mu.Unlock()
	return task, nil
}

// DeleteRegularTaskByID deletes a regular task and removes the local copy.
func (t *TaskStore) DeleteRegularTaskByID(ctx context.Context, id int64) error {
	t.begin()
	err := t.client.DeleteRegularTask(ctx, id)
	t.finish("delete regular task failed", err, "Failed to delete regular task")
	if err != nil {
		return err
	}
	t.mu.Lock()
	for i := range t.regular {
		if t.regular[i].ID == id {
			t.regular = append(t.regular[:i], t.regular[i+1:]...)
			break
		}
	}
	t.mu.Unlock()
	return nil
}

// FetchDynamicTasks replaces the dynamic collection with the server's
// response.
func (t *TaskStore) FetchDynamicTasks(ctx context.Context, filter *model.DynamicTaskFilter) error {
	t.begin()
	tasks, err := t.client.DynamicTasks(ctx, filter)
	t.finish("fetch dynamic tasks failed", err, "Failed to fetch dynamic tasks")
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.dynamic = tasks
	t.mu.Unlock()
	return nil
}

// AddDynamicTask creates a dynamic task and appends the server's copy.
func (t *TaskStore) AddDynamicTask(ctx context.Context, params model.CreateDynamicTaskParams) (*model.DynamicTask, error) {
	t.begin()
	task, err := t.client.CreateDynamicTask(ctx, params)
	t.finish("add dynamic task failed", err, "Failed to add dynamic task")
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.dynamic = append(t.dynamic, *task)
	t.mu.Unlock()
	return task, nil
}

// UpdateDynamicTaskByID applies a partial update and replaces the local
// copy in place. An id absent from the collection still resolves with
// the server's object but inserts nothing.
func (t *TaskStore) UpdateDynamicTaskByID(ctx context.Context, id int64, params model.UpdateDynamicTaskParams) (*model.DynamicTask, error) {
	t.begin()
	task, err := t.client.UpdateDynamicTask(ctx, id, params)
	t.finish("update dynamic task failed", err, "Failed to update dynamic task")
	if err != nil {
		return nil, err
	}
	t.replaceDynamic(id, task)
	return task, nil
}

// DeleteDynamicTaskByID deletes a dynamic task and removes the local copy.
func (t *TaskStore) DeleteDynamicTaskByID(ctx context.Context, id int64) error {
	t.begin()
	err := t.client.DeleteDynamicTask(ctx, id)
	t.finish("delete dynamic task failed", err, "Failed to delete dynamic task")
	if err != nil {
		return err
	}
	t.mu.Lock()
	for i := range t.dynamic {
		if t.dynamic[i].ID == id {
			t.dynamic = append(t.dynamic[:i], t.dynamic[i+1:]...)
			break
		}
	}
	t.mu.Unlock()
	return nil
}

// MarkTaskCompleted toggles completion and replaces the local copy with
// the server's.
func (t *TaskStore) MarkTaskCompleted(ctx context.Context, id int64, completed bool) (*model.DynamicTask, error) {
	t.begin()
	task, err := t.client.ToggleTaskCompletion(ctx, id, completed)
	t.finish("toggle task completion failed", err, "Failed to update task completion")
	if err != nil {
		return nil, err
	}
	t.replaceDynamic(id, task)
	return task, nil
}

// BatchAddDynamicTasks creates several tasks and appends the server's
// copies in response order.
func (t *TaskStore) BatchAddDynamicTasks(ctx context.Context, tasks []model.BatchTaskParams) ([]model.DynamicTask, error) {
	t.begin()
	created, err := t.client.BatchCreateDynamicTasks(ctx, tasks)
	t.finish("batch add dynamic tasks failed", err, "Failed to add tasks")
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.dynamic = append(t.dynamic, created...)
	t.mu.Unlock()
	return created, nil
}

func (t *TaskStore) replaceDynamic(id int64, task *model.DynamicTask) {
	t.mu.Lock()
	for i := range t.dynamic {
		if t.dynamic[i].ID == id {
			t.dynamic[i] = *task
			break
		}
	}
	t.mu.Unlock()
}

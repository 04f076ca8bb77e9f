package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/planterm/planterm/internal/model"
)

// RegularTasks lists regular tasks, optionally narrowed by filter.
func (c *Client) RegularTasks(ctx context.Context, filter *model.RegularTaskFilter) ([]model.RegularTask, error) {
	var tasks []model.RegularTask
	if err := c.do(ctx, http.MethodGet, "/tasks/regular", regularTaskQuery(filter), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateRegularTask creates a regular task and returns the server's copy.
func (c *Client) CreateRegularTask(ctx context.Context, params model.CreateRegularTaskParams) (*model.RegularTask, error) {
	var task model.RegularTask
	if err := c.do(ctx, http.MethodPost, "/tasks/regular", nil, params, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateRegularTask applies a partial update and returns the server's copy.
func (c *Client) UpdateRegularTask(ctx context.Context, id int64, params model.UpdateRegularTaskParams) (*model.RegularTask, error) {
	var task model.RegularTask
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/regular/%d", id), nil, params, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteRegularTask deletes a regular task.
func (c *Client) DeleteRegularTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/regular/%d", id), nil, nil, nil)
}

// DynamicTasks lists dynamic tasks, optionally narrowed by filter.
func (c *Client) DynamicTasks(ctx context.Context, filter *model.DynamicTaskFilter) ([]model.DynamicTask, error) {
	var tasks []model.DynamicTask
	if err := c.do(ctx, http.MethodGet, "/tasks/dynamic", dynamicTaskQuery(filter), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateDynamicTask creates a dynamic task and returns the server's copy.
func (c *Client) CreateDynamicTask(ctx context.Context, params model.CreateDynamicTaskParams) (*model.DynamicTask, error) {
	var task model.DynamicTask
	if err := c.do(ctx, http.MethodPost, "/tasks/dynamic", nil, params, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateDynamicTask applies a partial update and returns the server's copy.
func (c *Client) UpdateDynamicTask(ctx context.Context, id int64, params model.UpdateDynamicTaskParams) (*model.DynamicTask, error) {
	var task model.DynamicTask
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/dynamic/%d", id), nil, params, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteDynamicTask deletes a dynamic task.
func (c *Client) DeleteDynamicTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/dynamic/%d", id), nil, nil, nil)
}

// ToggleTaskCompletion marks a dynamic task completed or pending and
// returns the server's copy.
func (c *Client) ToggleTaskCompletion(ctx context.Context, id int64, completed bool) (*model.DynamicTask, error) {
	body := struct {
		Completed bool `json:"completed"`
	}{Completed: completed}

	var task model.DynamicTask
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/tasks/dynamic/%d/complete", id), nil, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// BatchCreateDynamicTasks creates several dynamic tasks in one call and
// returns the server's copies in creation order.
func (c *Client) BatchCreateDynamicTasks(ctx context.Context, tasks []model.BatchTaskParams) ([]model.DynamicTask, error) {
	body := struct {
		Tasks []model.BatchTaskParams `json:"tasks"`
	}{Tasks: tasks}

	var created []model.DynamicTask
	if err := c.do(ctx, http.MethodPost, "/tasks/dynamic/batch", nil, body, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// regularTaskQuery serializes a filter to query parameters, omitting
// unset fields entirely.
func regularTaskQuery(f *model.RegularTaskFilter) url.Values {
	if f == nil {
		return nil
	}
	q := url.Values{}
	if f.StartDate != "" {
		q.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("end_date", f.EndDate)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	return q
}

// dynamicTaskQuery serializes a filter to query parameters, omitting
// unset fields entirely.
func dynamicTaskQuery(f *model.DynamicTaskFilter) url.Values {
	if f == nil {
		return nil
	}
	q := url.Values{}
	if f.Completed != nil {
		q.Set("completed", strconv.FormatBool(*f.Completed))
	}
	if f.Priority != "" {
		q.Set("priority", string(f.Priority))
	}
	if f.Deadline != "" {
		q.Set("deadline", f.Deadline)
	}
	if f.Tag != "" {
		q.Set("tag", f.Tag)
	}
	if f.SortBy != "" {
		q.Set("sort_by", f.SortBy)
	}
	if f.Order != "" {
		q.Set("order", f.Order)
	}
	return q
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planterm/planterm/internal/model"
)

func TestDynamicTaskQuery(t *testing.T) {
	completed := false

	tests := []struct {
		name     string
		filter   *model.DynamicTaskFilter
		expected url.Values
	}{
		{
			name:     "nil filter",
			filter:   nil,
			expected: nil,
		},
		{
			name:     "zero filter omits everything",
			filter:   &model.DynamicTaskFilter{},
			expected: url.Values{},
		},
		{
			name:   "completed false is still sent",
			filter: &model.DynamicTaskFilter{Completed: &completed},
			expected: url.Values{
				"completed": []string{"false"},
			},
		},
		{
			name: "full filter",
			filter: &model.DynamicTaskFilter{
				Priority: model.PriorityHigh,
				Deadline: "2026-03-02",
				Tag:      "study",
				SortBy:   "deadline",
				Order:    "asc",
			},
			expected: url.Values{
				"priority": []string{"high"},
				"deadline": []string{"2026-03-02"},
				"tag":      []string{"study"},
				"sort_by":  []string{"deadline"},
				"order":    []string{"asc"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, dynamicTaskQuery(tt.filter))
		})
	}
}

func TestRegularTaskQuery(t *testing.T) {
	assert.Nil(t, regularTaskQuery(nil))
	assert.Equal(t, url.Values{}, regularTaskQuery(&model.RegularTaskFilter{}))
	assert.Equal(t, url.Values{
		"start_date": []string{"2026-03-02"},
		"end_date":   []string{"2026-03-08"},
		"type":       []string{"class"},
	}, regularTaskQuery(&model.RegularTaskFilter{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-08",
		Type:      "class",
	}))
}

func TestToggleTaskCompletionBody(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"id":7,"title":"read","completed":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	task, err := c.ToggleTaskCompletion(context.Background(), 7, true)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/tasks/dynamic/7/complete", gotPath)
	assert.Equal(t, map[string]any{"completed": true}, gotBody)
	assert.True(t, task.Completed)
}

func TestBatchCreateDynamicTasksEnvelope(t *testing.T) {
	var gotBody struct {
		Tasks []model.BatchTaskParams `json:"tasks"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`[{"id":1,"title":"a"},{"id":2,"title":"b"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	created, err := c.BatchCreateDynamicTasks(context.Background(), []model.BatchTaskParams{
		{Title: "a", Priority: model.PriorityHigh, EstimatedTime: 30},
		{Title: "b", Priority: model.PriorityLow, EstimatedTime: 60},
	})
	require.NoError(t, err)

	require.Len(t, gotBody.Tasks, 2)
	assert.Equal(t, "a", gotBody.Tasks[0].Title)
	require.Len(t, created, 2)
	assert.Equal(t, int64(2), created[1].ID)
}

func TestUpdateDynamicTaskOmitsNilFields(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.Write([]byte(`{"id":3,"title":"new title"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	title := "new title"
	_, err := c.UpdateDynamicTask(context.Background(), 3, model.UpdateDynamicTaskParams{Title: &title})
	require.NoError(t, err)

	assert.Contains(t, raw, "title")
	assert.NotContains(t, raw, "priority")
	assert.NotContains(t, raw, "completed")
	assert.NotContains(t, raw, "estimated_time")
}

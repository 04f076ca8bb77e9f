package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/planterm/planterm/internal/model"
	"github.com/planterm/planterm/internal/router"
	"github.com/planterm/planterm/internal/ui/keys"
	"github.com/planterm/planterm/internal/ui/styles"
)

// taskFilter selects which slice of the dynamic collection is shown
type taskFilter int

const (
	filterAll taskFilter = iota
	filterPending
	filterCompleted
	filterHigh
)

func (f taskFilter) label() string {
	switch f {
	case filterPending:
		return "Pending"
	case filterCompleted:
		return "Completed"
	case filterHigh:
		return "High priority"
	}
	return "All"
}

// TasksView shows the dynamic to-do list
type TasksView struct {
	ctx    Context
	styles *styles.Styles
	keys   keys.KeyMap

	tasks  []model.DynamicTask
	filter taskFilter

	width  int
	height int

	cursor  int
	scrollY int

	// Task creation/editing
	editing       bool
	editingNew    bool
	editID        int64
	editTitle     textinput.Model
	editEstimated textinput.Model
	editDeadline  textinput.Model
	editTags      textinput.Model
	editPriority  model.Priority
	editFocusIdx  int // 0=title, 1=priority, 2=estimated, 3=deadline, 4=tags, 5=save

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string

	errMsg string
}

// NewTasksView creates the dynamic task list view
func NewTasksView(ctx Context) *TasksView {
	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editEstimated := textinput.New()
	editEstimated.Placeholder = "Minutes"
	editEstimated.CharLimit = 4

	editDeadline := textinput.New()
	editDeadline.Placeholder = "YYYY-MM-DD (optional)"
	editDeadline.CharLimit = 10

	editTags := textinput.New()
	editTags.Placeholder = "tags, comma separated (optional)"
	editTags.CharLimit = 200

	return &TasksView{
		ctx:           ctx,
		styles:        styles.NewStyles(),
		keys:          keys.DefaultKeyMap(),
		filter:        filterPending,
		editTitle:     editTitle,
		editEstimated: editEstimated,
		editDeadline:  editDeadline,
		editTags:      editTags,
	}
}

// Init initializes the view
func (v *TasksView) Init() tea.Cmd {
	return v.loadTasks
}

type dynamicTasksLoadedMsg struct{}

type taskMutatedMsg struct {
	err error
}

func (v *TasksView) loadTasks() tea.Msg {
	if err := v.ctx.Tasks.FetchDynamicTasks(context.Background(), nil); err != nil {
		return taskMutatedMsg{err: err}
	}
	return dynamicTasksLoadedMsg{}
}

// refresh re-reads the store into the view's filtered slice
func (v *TasksView) refresh() {
	switch v.filter {
	case filterPending:
		v.tasks = v.ctx.Tasks.PendingTasks()
	case filterCompleted:
		v.tasks = v.ctx.Tasks.CompletedTasks()
	case filterHigh:
		v.tasks = v.ctx.Tasks.HighPriorityTasks()
	default:
		v.tasks = v.ctx.Tasks.DynamicTasks()
	}
	if v.cursor >= len(v.tasks) {
		v.cursor = max(0, len(v.tasks)-1)
	}
}

// Update handles messages
func (v *TasksView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case dynamicTasksLoadedMsg:
		v.refresh()
		return v, nil

	case taskMutatedMsg:
		if msg.err != nil {
			v.errMsg = v.ctx.Tasks.Err()
		} else {
			v.errMsg = ""
		}
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TasksView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return Navigate{Path: router.PathHome} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Filter):
		v.filter = (v.filter + 1) % 4
		v.cursor = 0
		v.scrollY = 0
		v.refresh()
		return v, nil

	case key.Matches(msg, v.keys.Refresh):
		return v, v.loadTasks

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit):
		if len(v.tasks) > 0 {
			v.startEditTask(v.tasks[v.cursor])
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if len(v.tasks) > 0 {
			v.confirmingDelete = true
			v.deleteTargetID = v.tasks[v.cursor].ID
			v.deleteTargetName = v.tasks[v.cursor].Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if len(v.tasks) > 0 {
			task := v.tasks[v.cursor]
			return v, v.toggleComplete(task.ID, !task.Completed)
		}
		return v, nil
	}

	return v, nil
}

func (v *TasksView) toggleComplete(id int64, completed bool) tea.Cmd {
	return func() tea.Msg {
		_, err := v.ctx.Tasks.MarkTaskCompleted(context.Background(), id, completed)
		return taskMutatedMsg{err: err}
	}
}

func (v *TasksView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := v.deleteTargetID
		v.confirmingDelete = false
		return v, func() tea.Msg {
			err := v.ctx.Tasks.DeleteDynamicTaskByID(context.Background(), id)
			return taskMutatedMsg{err: err}
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TasksView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 6
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + 5) % 6
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.editFocusIdx == 5 {
			return v, v.saveTask()
		}
		if v.editFocusIdx == 1 {
			v.cyclePriority()
			return v, nil
		}
		v.editFocusIdx++
		v.updateEditFocus()
		return v, nil

	case msg.String() == " ", msg.String() == "left", msg.String() == "right":
		if v.editFocusIdx == 1 {
			v.cyclePriority()
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 2:
		v.editEstimated, cmd = v.editEstimated.Update(msg)
	case 3:
		v.editDeadline, cmd = v.editDeadline.Update(msg)
	case 4:
		v.editTags, cmd = v.editTags.Update(msg)
	}
	return v, cmd
}

func (v *TasksView) cyclePriority() {
	switch v.editPriority {
	case model.PriorityHigh:
		v.editPriority = model.PriorityMedium
	case model.PriorityMedium:
		v.editPriority = model.PriorityLow
	default:
		v.editPriority = model.PriorityHigh
	}
}

func (v *TasksView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editFocusIdx = 0
	v.editPriority = model.PriorityMedium
	v.editTitle.Reset()
	v.editEstimated.SetValue("30")
	v.editDeadline.Reset()
	v.editTags.Reset()
	v.updateEditFocus()
}

func (v *TasksView) startEditTask(task model.DynamicTask) {
	v.editing = true
	v.editingNew = false
	v.editID = task.ID
	v.editFocusIdx = 0
	v.editPriority = task.Priority
	v.editTitle.SetValue(task.Title)
	v.editEstimated.SetValue(strconv.Itoa(task.EstimatedTime))
	v.editDeadline.SetValue(task.Deadline)
	v.editTags.SetValue(strings.Join(task.Tags, ", "))
	v.updateEditFocus()
}

func (v *TasksView) updateEditFocus() {
	v.editTitle.Blur()
	v.editEstimated.Blur()
	v.editDeadline.Blur()
	v.editTags.Blur()

	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 2:
		v.editEstimated.Focus()
	case 3:
		v.editDeadline.Focus()
	case 4:
		v.editTags.Focus()
	}
}

func parseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (v *TasksView) saveTask() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		v.editing = false
		return nil
	}

	estimated, _ := strconv.Atoi(strings.TrimSpace(v.editEstimated.Value()))
	if estimated <= 0 {
		estimated = 30
	}
	deadline := strings.TrimSpace(v.editDeadline.Value())
	tags := parseTags(v.editTags.Value())
	priority := v.editPriority

	v.editing = false

	if v.editingNew {
		params := model.CreateDynamicTaskParams{
			Title:         title,
			Priority:      priority,
			EstimatedTime: estimated,
			Deadline:      deadline,
			Tags:          tags,
		}
		return func() tea.Msg {
			_, err := v.ctx.Tasks.AddDynamicTask(context.Background(), params)
			return taskMutatedMsg{err: err}
		}
	}

	id := v.editID
	params := model.UpdateDynamicTaskParams{
		Title:         &title,
		Priority:      &priority,
		EstimatedTime: &estimated,
		Deadline:      &deadline,
		Tags:          tags,
	}
	return func() tea.Msg {
		_, err := v.ctx.Tasks.UpdateDynamicTaskByID(context.Background(), id, params)
		return taskMutatedMsg{err: err}
	}
}

func (v *TasksView) ensureVisible() {
	// Each task item is 2 lines
	availableHeight := v.height - 10
	if availableHeight < 2 {
		availableHeight = 2
	}
	visibleItems := availableHeight / 2
	if visibleItems < 1 {
		visibleItems = 1
	}

	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

// View renders the view
func (v *TasksView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderEditForm()
	}

	var b strings.Builder
	s := v.styles

	b.WriteString(s.Title.Render("Tasks"))
	b.WriteString("  ")
	b.WriteString(s.TitleMuted.Render(v.filter.label()))
	if v.ctx.Tasks.Loading() {
		b.WriteString(s.TitleMuted.Render("  loading..."))
	}
	b.WriteString("\n\n")

	b.WriteString(v.renderTaskList())

	if v.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(s.ErrorText.Render(v.errMsg))
	}

	b.WriteString("\n")
	b.WriteString(s.Help.Render(
		s.HelpKey.Render("n") + " new • " +
			s.HelpKey.Render("e") + " edit • " +
			s.HelpKey.Render("d") + " del • " +
			s.HelpKey.Render("c") + " toggle done • " +
			s.HelpKey.Render("f") + " filter • " +
			s.HelpKey.Render("r") + " refresh • " +
			s.HelpKey.Render("esc") + " back • " +
			s.HelpKey.Render("q") + " quit",
	))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TasksView) renderTaskList() string {
	s := v.styles

	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	availableHeight := v.height - 10
	if availableHeight < 2 {
		availableHeight = 2
	}
	visibleItems := availableHeight / 2
	if visibleItems < 1 {
		visibleItems = 1
	}

	var items []string
	endIdx := min(v.scrollY+visibleItems, len(v.tasks))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TasksView) renderTaskItem(task model.DynamicTask, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	check := "[ ]"
	if task.Completed {
		check = "[x]"
	}

	priorityDot := lipgloss.NewStyle().
		Foreground(styles.PriorityColor(string(task.Priority))).
		Render("●")

	titleLine := fmt.Sprintf("%s %s %s", check, priorityDot, task.Title)

	meta := fmt.Sprintf("%dm", task.EstimatedTime)
	if task.Deadline != "" {
		meta += " • due " + task.Deadline
	}
	if len(task.Tags) > 0 {
		meta += " • " + strings.Join(task.Tags, " ")
	}

	var titleStyle, metaStyle lipgloss.Style
	if selected {
		titleStyle = s.ListSelected.Width(width)
		metaStyle = s.ListSelected.Width(width)
	} else {
		titleStyle = s.ListItem.Width(width)
		metaStyle = s.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(titleLine),
		metaStyle.Render(meta),
	)
}

func (v *TasksView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	formTitle := "New Task"
	if !v.editingNew {
		formTitle = "Edit Task"
	}

	fieldStyle := func(idx int) lipgloss.Style {
		if v.editFocusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if v.editFocusIdx == 5 {
		btnStyle = s.ButtonFocused
	}

	priorityLabel := lipgloss.NewStyle().
		Foreground(styles.PriorityColor(string(v.editPriority))).
		Render(string(v.editPriority))

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Title:",
		fieldStyle(0).Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Priority (space to cycle):",
		fieldStyle(1).Width(16).Render(priorityLabel),
		"",
		"Estimated minutes:",
		fieldStyle(2).Width(10).Render(v.editEstimated.View()),
		"",
		"Deadline:",
		fieldStyle(3).Width(24).Render(v.editDeadline.View()),
		"",
		"Tags:",
		fieldStyle(4).Width(inputWidth).Render(v.editTags.View()),
		"",
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TasksView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(v.deleteTargetName),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

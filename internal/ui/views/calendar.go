package views

import (
	"context"
	"fmt"
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

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// CalendarView shows the recurring schedule blocks
type CalendarView struct {
	ctx    Context
	styles *styles.Styles
	keys   keys.KeyMap

	tasks []model.RegularTask

	width  int
	height int

	cursor  int
	scrollY int

	editing      bool
	editingNew   bool
	editID       int64
	editTitle    textinput.Model
	editType     textinput.Model
	editLocation textinput.Model
	editStart    textinput.Model
	editEnd      textinput.Model
	editRepeat   model.RepeatType
	editDays     [7]bool
	editFocusIdx int // 0=title, 1=type, 2=location, 3=start, 4=end, 5=repeat, 6=days, 7=save
	dayCursor    int

	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string

	errMsg string
}

// NewCalendarView creates the regular task view
func NewCalendarView(ctx Context) *CalendarView {
	editTitle := textinput.New()
	editTitle.Placeholder = "Title"
	editTitle.CharLimit = 200

	editType := textinput.New()
	editType.Placeholder = "class, work, meeting..."
	editType.CharLimit = 50

	editLocation := textinput.New()
	editLocation.Placeholder = "Location (optional)"
	editLocation.CharLimit = 100

	editStart := textinput.New()
	editStart.Placeholder = "09:00"
	editStart.CharLimit = 19

	editEnd := textinput.New()
	editEnd.Placeholder = "10:30"
	editEnd.CharLimit = 19

	return &CalendarView{
		ctx:          ctx,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		editTitle:    editTitle,
		editType:     editType,
		editLocation: editLocation,
		editStart:    editStart,
		editEnd:      editEnd,
	}
}

// Init initializes the view
func (v *CalendarView) Init() tea.Cmd {
	return v.loadTasks
}

type regularTasksLoadedMsg struct{}

type regularMutatedMsg struct {
	err error
}

func (v *CalendarView) loadTasks() tea.Msg {
	if err := v.ctx.Tasks.FetchRegularTasks(context.Background(), nil); err != nil {
		return regularMutatedMsg{err: err}
	}
	return regularTasksLoadedMsg{}
}

func (v *CalendarView) refresh() {
	v.tasks = v.ctx.Tasks.RegularTasks()
	if v.cursor >= len(v.tasks) {
		v.cursor = max(0, len(v.tasks)-1)
	}
}

// Update handles messages
func (v *CalendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case regularTasksLoadedMsg:
		v.refresh()
		return v, nil

	case regularMutatedMsg:
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

func (v *CalendarView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
	}

	return v, nil
}

func (v *CalendarView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := v.deleteTargetID
		v.confirmingDelete = false
		return v, func() tea.Msg {
			err := v.ctx.Tasks.DeleteRegularTaskByID(context.Background(), id)
			return regularMutatedMsg{err: err}
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *CalendarView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 8
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + 7) % 8
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case 5:
			v.cycleRepeat()
		case 6:
			v.editDays[v.dayCursor] = !v.editDays[v.dayCursor]
		case 7:
			return v, v.saveTask()
		default:
			v.editFocusIdx++
			v.updateEditFocus()
		}
		return v, nil

	case msg.String() == " ":
		switch v.editFocusIdx {
		case 5:
			v.cycleRepeat()
			return v, nil
		case 6:
			v.editDays[v.dayCursor] = !v.editDays[v.dayCursor]
			return v, nil
		}

	case msg.String() == "left":
		switch v.editFocusIdx {
		case 5:
			v.cycleRepeat()
			return v, nil
		case 6:
			v.dayCursor = (v.dayCursor + 6) % 7
			return v, nil
		}

	case msg.String() == "right":
		switch v.editFocusIdx {
		case 5:
			v.cycleRepeat()
			return v, nil
		case 6:
			v.dayCursor = (v.dayCursor + 1) % 7
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editType, cmd = v.editType.Update(msg)
	case 2:
		v.editLocation, cmd = v.editLocation.Update(msg)
	case 3:
		v.editStart, cmd = v.editStart.Update(msg)
	case 4:
		v.editEnd, cmd = v.editEnd.Update(msg)
	}
	return v, cmd
}

func (v *CalendarView) cycleRepeat() {
	switch v.editRepeat {
	case model.RepeatDaily:
		v.editRepeat = model.RepeatWeekly
	case model.RepeatWeekly:
		v.editRepeat = model.RepeatSingle
	default:
		v.editRepeat = model.RepeatDaily
	}
}

func (v *CalendarView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editFocusIdx = 0
	v.dayCursor = 1
	v.editRepeat = model.RepeatWeekly
	v.editDays = [7]bool{}
	v.editTitle.Reset()
	v.editType.Reset()
	v.editLocation.Reset()
	v.editStart.SetValue("09:00")
	v.editEnd.SetValue("10:00")
	v.updateEditFocus()
}

func (v *CalendarView) startEditTask(task model.RegularTask) {
	v.editing = true
	v.editingNew = false
	v.editID = task.ID
	v.editFocusIdx = 0
	v.dayCursor = 1
	v.editRepeat = task.RepeatType
	v.editDays = [7]bool{}
	for _, d := range task.RepeatDays {
		if d >= 0 && d < 7 {
			v.editDays[d] = true
		}
	}
	v.editTitle.SetValue(task.Title)
	v.editType.SetValue(task.Type)
	v.editLocation.SetValue(task.Location)
	v.editStart.SetValue(task.StartTime)
	v.editEnd.SetValue(task.EndTime)
	v.updateEditFocus()
}

func (v *CalendarView) updateEditFocus() {
	v.editTitle.Blur()
	v.editType.Blur()
	v.editLocation.Blur()
	v.editStart.Blur()
	v.editEnd.Blur()

	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editType.Focus()
	case 2:
		v.editLocation.Focus()
	case 3:
		v.editStart.Focus()
	case 4:
		v.editEnd.Focus()
	}
}

func (v *CalendarView) selectedDays() []int {
	var days []int
	for i, on := range v.editDays {
		if on {
			days = append(days, i)
		}
	}
	return days
}

func (v *CalendarView) saveTask() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		v.editing = false
		return nil
	}

	taskType := strings.TrimSpace(v.editType.Value())
	location := strings.TrimSpace(v.editLocation.Value())
	start := strings.TrimSpace(v.editStart.Value())
	end := strings.TrimSpace(v.editEnd.Value())
	repeat := v.editRepeat
	var days []int
	if repeat == model.RepeatWeekly {
		days = v.selectedDays()
	}

	v.editing = false

	if v.editingNew {
		params := model.CreateRegularTaskParams{
			Title:      title,
			Type:       taskType,
			Location:   location,
			StartTime:  start,
			EndTime:    end,
			RepeatType: repeat,
			RepeatDays: days,
		}
		return func() tea.Msg {
			_, err := v.ctx.Tasks.AddRegularTask(context.Background(), params)
			return regularMutatedMsg{err: err}
		}
	}

	id := v.editID
	params := model.UpdateRegularTaskParams{
		Title:      &title,
		Type:       &taskType,
		Location:   &location,
		StartTime:  &start,
		EndTime:    &end,
		RepeatType: &repeat,
		RepeatDays: days,
	}
	return func() tea.Msg {
		_, err := v.ctx.Tasks.UpdateRegularTaskByID(context.Background(), id, params)
		return regularMutatedMsg{err: err}
	}
}

func (v *CalendarView) ensureVisible() {
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

// repeatSummary renders "daily", "weekly Mon Wed Fri" or "once"
func repeatSummary(task model.RegularTask) string {
	switch task.RepeatType {
	case model.RepeatDaily:
		return "daily"
	case model.RepeatWeekly:
		if len(task.RepeatDays) == 0 {
			return "weekly"
		}
		names := make([]string, 0, len(task.RepeatDays))
		for _, d := range task.RepeatDays {
			if d >= 0 && d < 7 {
				names = append(names, weekdayNames[d])
			}
		}
		return "weekly " + strings.Join(names, " ")
	default:
		return "once"
	}
}

// View renders the view
func (v *CalendarView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderEditForm()
	}

	var b strings.Builder
	s := v.styles

	b.WriteString(s.Title.Render("Calendar"))
	b.WriteString("  ")
	b.WriteString(s.TitleMuted.Render("recurring blocks"))
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
			s.HelpKey.Render("r") + " refresh • " +
			s.HelpKey.Render("esc") + " back • " +
			s.HelpKey.Render("q") + " quit",
	))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *CalendarView) renderTaskList() string {
	s := v.styles

	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No scheduled blocks. Press 'n' to create one.")
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

func (v *CalendarView) renderTaskItem(task model.RegularTask, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	titleLine := task.Title
	if task.Type != "" {
		titleLine += "  " + s.TitleMuted.Render("("+task.Type+")")
	}

	meta := fmt.Sprintf("%s - %s • %s", task.StartTime, task.EndTime, repeatSummary(task))
	if task.Location != "" {
		meta += " • " + task.Location
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

func (v *CalendarView) renderDayPicker() string {
	var parts []string
	for i, name := range weekdayNames {
		label := " " + name + " "
		if v.editDays[i] {
			label = "[" + name + "]"
		}
		style := lipgloss.NewStyle()
		if v.editDays[i] {
			style = style.Foreground(styles.Current.Primary)
		} else {
			style = style.Foreground(styles.Current.ForegroundDim)
		}
		if v.editFocusIdx == 6 && v.dayCursor == i {
			style = style.Bold(true).Underline(true)
		}
		parts = append(parts, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (v *CalendarView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	formTitle := "New Block"
	if !v.editingNew {
		formTitle = "Edit Block"
	}

	fieldStyle := func(idx int) lipgloss.Style {
		if v.editFocusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if v.editFocusIdx == 7 {
		btnStyle = s.ButtonFocused
	}

	rows := []string{
		s.Title.Render(formTitle),
		"",
		"Title:",
		fieldStyle(0).Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Type:",
		fieldStyle(1).Width(24).Render(v.editType.View()),
		"",
		"Location:",
		fieldStyle(2).Width(inputWidth).Render(v.editLocation.View()),
		"",
		"Start / End:",
		lipgloss.JoinHorizontal(lipgloss.Center,
			fieldStyle(3).Width(12).Render(v.editStart.View()),
			"  ",
			fieldStyle(4).Width(12).Render(v.editEnd.View()),
		),
		"",
		"Repeat (space to cycle):",
		fieldStyle(5).Width(12).Render(string(v.editRepeat)),
	}
	if v.editRepeat == model.RepeatWeekly {
		rows = append(rows,
			"",
			"Days (arrows move, space toggles):",
			v.renderDayPicker(),
		)
	}
	rows = append(rows,
		"",
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *CalendarView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Block?"),
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

package views

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/planterm/planterm/internal/api"
	"github.com/planterm/planterm/internal/model"
	"github.com/planterm/planterm/internal/router"
	"github.com/planterm/planterm/internal/ui/keys"
	"github.com/planterm/planterm/internal/ui/styles"
)

// scheduleTab selects which panel of the AI view is active
type scheduleTab int

const (
	tabDaily scheduleTab = iota
	tabWeekly
	tabAdvice
)

func (t scheduleTab) label() string {
	switch t {
	case tabWeekly:
		return "Week"
	case tabAdvice:
		return "Advice"
	}
	return "Today"
}

// ScheduleView shows AI-generated schedules and recommendations
type ScheduleView struct {
	ctx    Context
	styles *styles.Styles
	keys   keys.KeyMap

	tab  scheduleTab
	date time.Time

	daily   *model.GenerateScheduleResponse
	weekly  *model.WeeklyScheduleResponse
	advice  *model.RecommendationsResponse
	loading bool
	errMsg  string

	width  int
	height int

	scrollY int
}

// NewScheduleView creates the AI schedule view
func NewScheduleView(ctx Context) *ScheduleView {
	return &ScheduleView{
		ctx:    ctx,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		date:   time.Now(),
	}
}

// Init initializes the view
func (v *ScheduleView) Init() tea.Cmd {
	return v.load()
}

type dailyScheduleMsg struct {
	resp *model.GenerateScheduleResponse
	err  error
}

type weeklyScheduleMsg struct {
	resp *model.WeeklyScheduleResponse
	err  error
}

type adviceMsg struct {
	resp *model.RecommendationsResponse
	err  error
}

func (v *ScheduleView) load() tea.Cmd {
	v.loading = true
	v.scrollY = 0
	switch v.tab {
	case tabWeekly:
		start := v.weekStart().Format("2006-01-02")
		return func() tea.Msg {
			resp, err := v.ctx.Client.WeeklySchedule(context.Background(), start)
			return weeklyScheduleMsg{resp: resp, err: err}
		}
	case tabAdvice:
		date := v.date.Format("2006-01-02")
		return func() tea.Msg {
			resp, err := v.ctx.Client.Recommendations(context.Background(), date)
			return adviceMsg{resp: resp, err: err}
		}
	default:
		date := v.date.Format("2006-01-02")
		return func() tea.Msg {
			resp, err := v.ctx.Client.GenerateSchedule(context.Background(), date)
			return dailyScheduleMsg{resp: resp, err: err}
		}
	}
}

// weekStart returns the Monday of the selected date's week
func (v *ScheduleView) weekStart() time.Time {
	d := v.date
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// Update handles messages
func (v *ScheduleView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case dailyScheduleMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = api.ErrorMessage(msg.err, api.MsgRequestFailed)
		} else {
			v.errMsg = ""
			v.daily = msg.resp
		}
		return v, nil

	case weeklyScheduleMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = api.ErrorMessage(msg.err, api.MsgRequestFailed)
		} else {
			v.errMsg = ""
			v.weekly = msg.resp
		}
		return v, nil

	case adviceMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = api.ErrorMessage(msg.err, api.MsgRequestFailed)
		} else {
			v.errMsg = ""
			v.advice = msg.resp
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return Navigate{Path: router.PathHome} }

		case key.Matches(msg, v.keys.Tab), key.Matches(msg, v.keys.Filter):
			v.tab = (v.tab + 1) % 3
			return v, v.load()

		case key.Matches(msg, v.keys.Refresh):
			return v, v.load()

		case msg.String() == "left", msg.String() == "h":
			step := -1
			if v.tab == tabWeekly {
				step = -7
			}
			v.date = v.date.AddDate(0, 0, step)
			return v, v.load()

		case msg.String() == "right", msg.String() == "l":
			step := 1
			if v.tab == tabWeekly {
				step = 7
			}
			v.date = v.date.AddDate(0, 0, step)
			return v, v.load()

		case key.Matches(msg, v.keys.Up):
			if v.scrollY > 0 {
				v.scrollY--
			}
			return v, nil

		case key.Matches(msg, v.keys.Down):
			v.scrollY++
			return v, nil
		}
	}

	return v, nil
}

// View renders the view
func (v *ScheduleView) View() string {
	var b strings.Builder
	s := v.styles

	b.WriteString(s.Title.Render("AI Schedule"))
	b.WriteString("  ")
	for t := tabDaily; t <= tabAdvice; t++ {
		label := t.label()
		if t == v.tab {
			b.WriteString(s.HelpKey.Render("[" + label + "]"))
		} else {
			b.WriteString(s.TitleMuted.Render(" " + label + " "))
		}
	}
	if v.loading {
		b.WriteString(s.TitleMuted.Render("  thinking..."))
	}
	b.WriteString("\n")
	b.WriteString(s.TitleMuted.Render(v.headerDate()))
	b.WriteString("\n\n")

	if v.errMsg != "" {
		b.WriteString(s.ErrorText.Render(v.errMsg))
		b.WriteString("\n")
	}

	switch v.tab {
	case tabWeekly:
		b.WriteString(v.renderWeekly())
	case tabAdvice:
		b.WriteString(v.renderAdvice())
	default:
		b.WriteString(v.renderDaily())
	}

	b.WriteString("\n")
	b.WriteString(s.Help.Render(
		s.HelpKey.Render("tab") + " panel • " +
			s.HelpKey.Render("←/→") + " date • " +
			s.HelpKey.Render("r") + " regenerate • " +
			s.HelpKey.Render("esc") + " back • " +
			s.HelpKey.Render("q") + " quit",
	))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *ScheduleView) headerDate() string {
	if v.tab == tabWeekly {
		start := v.weekStart()
		end := start.AddDate(0, 0, 6)
		return start.Format("Jan 2") + " - " + end.Format("Jan 2, 2006")
	}
	return v.date.Format("Monday, Jan 2, 2006")
}

func (v *ScheduleView) renderScheduleItem(item model.ScheduleItem) string {
	s := v.styles
	tier := api.PriorityTier(item.PriorityScore)
	dot := lipgloss.NewStyle().Foreground(styles.TierColor(tier)).Render("●")

	timeRange := api.FormatTimeRange(item.StartTime, item.EndTime)
	if timeRange == "" {
		timeRange = "--:-- - --:--"
	}
	duration := api.CalculateDuration(item.StartTime, item.EndTime)

	line := fmt.Sprintf("%s %s  %s", dot, timeRange, item.Title)
	meta := fmt.Sprintf("%dm", duration)
	if item.Confidence > 0 {
		meta += fmt.Sprintf(" • %.0f%% confidence", item.Confidence*100)
	}
	return line + "  " + s.TitleMuted.Render(meta)
}

func (v *ScheduleView) renderDaily() string {
	s := v.styles
	if v.daily == nil {
		if v.loading {
			return s.TitleMuted.Render("Generating today's schedule...")
		}
		return s.TitleMuted.Render("No schedule yet.")
	}
	if !v.daily.Success && v.daily.Error != "" {
		return s.ErrorText.Render(v.daily.Error)
	}
	if len(v.daily.Schedule) == 0 {
		return s.TitleMuted.Render("Nothing scheduled for this day.")
	}

	items := make([]model.ScheduleItem, len(v.daily.Schedule))
	copy(items, v.daily.Schedule)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartTime < items[j].StartTime
	})

	lines := make([]string, 0, len(items)+2)
	for _, item := range items {
		lines = append(lines, v.renderScheduleItem(item))
	}
	lines = append(lines, "", s.TitleMuted.Render(fmt.Sprintf("%d tasks placed", v.daily.TotalTasks)))
	return v.scrollWindow(lines)
}

func (v *ScheduleView) renderWeekly() string {
	s := v.styles
	if v.weekly == nil {
		if v.loading {
			return s.TitleMuted.Render("Generating weekly schedule...")
		}
		return s.TitleMuted.Render("No schedule yet.")
	}
	if !v.weekly.Success && v.weekly.Error != "" {
		return s.ErrorText.Render(v.weekly.Error)
	}

	dates := make([]string, 0, len(v.weekly.WeeklySchedule))
	for d := range v.weekly.WeeklySchedule {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var lines []string
	for _, d := range dates {
		dayLabel := d
		if t, err := time.Parse("2006-01-02", d); err == nil {
			dayLabel = t.Format("Mon Jan 2")
		}
		lines = append(lines, s.HelpKey.Render(dayLabel))
		dayItems := v.weekly.WeeklySchedule[d]
		if len(dayItems) == 0 {
			lines = append(lines, s.TitleMuted.Render("  free"))
		}
		for _, item := range dayItems {
			lines = append(lines, "  "+v.renderScheduleItem(item))
		}
		lines = append(lines, "")
	}
	if len(lines) == 0 {
		return s.TitleMuted.Render("Nothing scheduled this week.")
	}
	return v.scrollWindow(lines)
}

func (v *ScheduleView) renderAdvice() string {
	s := v.styles
	if v.advice == nil {
		if v.loading {
			return s.TitleMuted.Render("Asking for recommendations...")
		}
		return s.TitleMuted.Render("No recommendations yet.")
	}
	if !v.advice.Success && v.advice.Error != "" {
		return s.ErrorText.Render(v.advice.Error)
	}
	text := strings.TrimSpace(v.advice.Recommendations)
	if text == "" {
		return s.TitleMuted.Render("No recommendations for this day.")
	}

	contentWidth := styles.ContentWidth(v.width)
	wrapped := lipgloss.NewStyle().Width(max(contentWidth-4, 20)).Render(text)
	lines := strings.Split(wrapped, "\n")
	if !v.advice.AISuccess {
		lines = append(lines, "", s.TitleMuted.Render("(heuristic fallback, AI unavailable)"))
	}
	return v.scrollWindow(lines)
}

// scrollWindow clips rendered lines to the visible region
func (v *ScheduleView) scrollWindow(lines []string) string {
	availableHeight := v.height - 9
	if availableHeight < 3 {
		availableHeight = 3
	}
	if v.scrollY > len(lines)-1 {
		v.scrollY = max(0, len(lines)-1)
	}
	end := min(v.scrollY+availableHeight, len(lines))
	return strings.Join(lines[v.scrollY:end], "\n")
}

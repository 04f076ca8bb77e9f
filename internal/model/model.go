package model

// User represents an authenticated account
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Priority levels for dynamic tasks
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// RepeatType describes how a regular task recurs
type RepeatType string

const (
	RepeatDaily  RepeatType = "daily"
	RepeatWeekly RepeatType = "weekly"
	RepeatSingle RepeatType = "single"
)

// RegularTask is a recurring or one-off scheduled block. It has no
// completion concept; it simply occupies time.
type RegularTask struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Type       string     `json:"type"`
	Location   string     `json:"location,omitempty"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
	RepeatType RepeatType `json:"repeat_type"`
	RepeatDays []int      `json:"repeat_days,omitempty"` // weekday indices 0-6, Sunday first
	CreatedAt  string     `json:"created_at"`
	UpdatedAt  string     `json:"updated_at"`
}

// DynamicTask is a to-do item the AI scheduler can place into time slots.
type DynamicTask struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Priority      Priority `json:"priority"`
	EstimatedTime int      `json:"estimated_time"` // minutes
	Deadline      string   `json:"deadline,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Completed     bool     `json:"completed"`
	CompletedAt   string   `json:"completed_at,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// ScheduleItem is one server-computed slot in a generated schedule.
// Never created or mutated client-side.
type ScheduleItem struct {
	TaskID        int64   `json:"task_id"`
	Title         string  `json:"title"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	PriorityScore float64 `json:"priority_score"`
	Confidence    float64 `json:"confidence"`
}

// CreateRegularTaskParams is the request body for creating a regular task
type CreateRegularTaskParams struct {
	Title      string     `json:"title"`
	Type       string     `json:"type"`
	Location   string     `json:"location,omitempty"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
	RepeatType RepeatType `json:"repeat_type"`
	RepeatDays []int      `json:"repeat_days,omitempty"`
}

// UpdateRegularTaskParams is a partial update; nil fields are left untouched
type UpdateRegularTaskParams struct {
	Title      *string     `json:"title,omitempty"`
	Type       *string     `json:"type,omitempty"`
	Location   *string     `json:"location,omitempty"`
	StartTime  *string     `json:"start_time,omitempty"`
	EndTime    *string     `json:"end_time,omitempty"`
	RepeatType *RepeatType `json:"repeat_type,omitempty"`
	RepeatDays []int       `json:"repeat_days,omitempty"`
}

// CreateDynamicTaskParams is the request body for creating a dynamic task
type CreateDynamicTaskParams struct {
	Title         string   `json:"title"`
	Priority      Priority `json:"priority"`
	EstimatedTime int      `json:"estimated_time"`
	Deadline      string   `json:"deadline,omitempty"`
	Tags          []string `json:"tags,omitempty"`
}

// UpdateDynamicTaskParams is a partial update; nil fields are left untouched
type UpdateDynamicTaskParams struct {
	Title         *string   `json:"title,omitempty"`
	Priority      *Priority `json:"priority,omitempty"`
	EstimatedTime *int      `json:"estimated_time,omitempty"`
	Deadline      *string   `json:"deadline,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Completed     *bool     `json:"completed,omitempty"`
	CompletedAt   *string   `json:"completed_at,omitempty"`
}

// BatchTaskParams is one entry of a batch create; batch entries carry no tags
type BatchTaskParams struct {
	Title         string   `json:"title"`
	Priority      Priority `json:"priority"`
	EstimatedTime int      `json:"estimated_time"`
	Deadline      string   `json:"deadline,omitempty"`
}

// RegularTaskFilter narrows a regular task listing. Zero fields are
// omitted from the request entirely.
type RegularTaskFilter struct {
	StartDate string
	EndDate   string
	Type      string
}

// DynamicTaskFilter narrows a dynamic task listing. Nil/zero fields are
// omitted from the request entirely.
type DynamicTaskFilter struct {
	Completed *bool
	Priority  Priority
	Deadline  string
	Tag       string
	SortBy    string // created_at, priority or deadline
	Order     string // asc or desc
}

// LoginRequest carries either a username or an email plus the password
type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// LoginResponse is the successful login payload
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        User   `json:"user"`
}

// RegisterRequest is the account creation body
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse confirms account creation; the caller must still log in
type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// GenerateScheduleResponse is the AI daily schedule payload
type GenerateScheduleResponse struct {
	Success    bool           `json:"success"`
	Date       string         `json:"date"`
	Schedule   []ScheduleItem `json:"schedule"`
	TotalTasks int            `json:"total_tasks"`
	Error      string         `json:"error,omitempty"`
}

// RecommendationsResponse carries free-form AI scheduling advice
type RecommendationsResponse struct {
	Success         bool   `json:"success"`
	Date            string `json:"date"`
	Recommendations string `json:"recommendations"`
	AISuccess       bool   `json:"ai_success"`
	Error           string `json:"error,omitempty"`
}

// WorkPatterns summarizes historical completion behavior
type WorkPatterns struct {
	TotalCompleted        int            `json:"total_completed"`
	CompletionRate        float64        `json:"completion_rate"`
	TasksByPriority       map[string]int `json:"tasks_by_priority"`
	AverageCompletionTime float64        `json:"average_completion_time"`
	PreferredTimeSlots    map[string]int `json:"preferred_time_slots"`
}

// WorkPatternsResponse is the work pattern analysis payload
type WorkPatternsResponse struct {
	Success  bool         `json:"success"`
	Patterns WorkPatterns `json:"patterns"`
	Error    string       `json:"error,omitempty"`
}

// WeeklyScheduleResponse maps ISO dates to that day's schedule
type WeeklyScheduleResponse struct {
	Success        bool                      `json:"success"`
	StartDate      string                    `json:"start_date"`
	EndDate        string                    `json:"end_date"`
	WeeklySchedule map[string][]ScheduleItem `json:"weekly_schedule"`
	TotalTasks     int                       `json:"total_tasks"`
	Error          string                    `json:"error,omitempty"`
}

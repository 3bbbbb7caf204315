package analytics

import "time"

type TimeBucket struct {
	Label        string `json:"label" db:"label"`
	Applications int    `json:"applications" db:"applications"`
	Completed    int    `json:"completed" db:"completed"`
}

type StatusCount struct {
	Status string `json:"status" db:"status"`
	Count  int    `json:"count" db:"count"`
}

type SourceBreakdown struct {
	Source    string `json:"source" db:"source"`
	Count     int    `json:"count" db:"count"`
	Completed int    `json:"completed" db:"completed"`
}

type ActivityItem struct {
	Type        string    `json:"type" db:"type"`
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
	Description string    `json:"description" db:"description"`
}

type DashboardMetrics struct {
	TimeRange            string            `json:"time_range"`
	TotalApplications    int               `json:"total_applications"`
	CompletionRate       float64           `json:"completion_rate"`
	AverageCallDuration  float64           `json:"average_call_duration"`
	ConversionRate       float64           `json:"conversion_rate"`
	ApplicationsOverTime []TimeBucket      `json:"applications_over_time"`
	CallSuccessRate      []StatusCount     `json:"call_success_rate"`
	RecentActivity       []ActivityItem    `json:"recent_activity"`
	SourceBreakdown      []SourceBreakdown `json:"source_breakdown"`
	StatusBreakdown      []StatusCount     `json:"status_breakdown"`
}

type DashboardResponse struct {
	Success bool             `json:"success"`
	Data    DashboardMetrics `json:"data"`
}

type ApplicationDetailResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

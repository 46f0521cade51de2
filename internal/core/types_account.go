package core

import "time"

// Account is one upstream account record as stored in accounts.json.
type Account struct {
	RefreshToken string `json:"refresh_token"`
	ProjectID    string `json:"project_id,omitempty"`
	AccessToken  string `json:"access_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	Timestamp    int64  `json:"timestamp,omitempty"`
	Enable       *bool  `json:"enable,omitempty"`
}

// IsEnabled reports whether the account is enabled. A missing flag counts as enabled.
func (a Account) IsEnabled() bool {
	return a.Enable == nil || *a.Enable
}

// SetEnabled sets the enable flag.
func (a *Account) SetEnabled(enable bool) {
	a.Enable = &enable
}

// Credential is a (name, key) pair pushed as one channel.
type Credential struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// AccountStats summarizes the account list.
type AccountStats struct {
	Total    int `json:"total"`
	Enabled  int `json:"enabled"`
	Disabled int `json:"disabled"`
}

// BatchAddResult is the outcome of a batch import.
type BatchAddResult struct {
	Added        int          `json:"added"`
	Skipped      int          `json:"skipped"`
	Uploaded     int          `json:"uploaded"`
	UploadFailed int          `json:"uploadFailed"`
	Message      string       `json:"message"`
	Credentials  []Credential `json:"-"`
}

// PushRecord is a single push in the metrics history.
type PushRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Success      bool      `json:"success"`
	ResponseTime int64     `json:"response_time"`
	Name         string    `json:"name"`
}

// PushStats holds aggregated push statistics.
type PushStats struct {
	TotalPushes       int64        `json:"total_pushes"`
	SuccessfulPushes  int64        `json:"successful_pushes"`
	FailedPushes      int64        `json:"failed_pushes"`
	TotalResponseTime int64        `json:"total_response_time"`
	LastPushTime      time.Time    `json:"last_push_time"`
	PushHistory       []PushRecord `json:"push_history"`
}

// PeriodStats holds computed statistics for a time period.
type PeriodStats struct {
	Pushes          int64   `json:"pushes"`
	SuccessRate     float64 `json:"successRate"`
	AvgResponseTime int64   `json:"avgResponseTime"`
}

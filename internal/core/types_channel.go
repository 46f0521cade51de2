package core

import "time"

// ChannelTemplate is the static part of every channel created in one run.
type ChannelTemplate struct {
	Type         int               `json:"type"`
	BaseURL      string            `json:"base_url"`
	Models       []string          `json:"models"`
	ModelMapping map[string]string `json:"model_mapping"`
	Priority     int               `json:"priority"`
	Weight       int               `json:"weight"`
	Tag          string            `json:"tag"`
	Group        string            `json:"group"`
	MultiKeyMode string            `json:"multi_key_mode"`
	AutoBan      int               `json:"auto_ban"`
	TestModel    string            `json:"test_model"`
	Proxy        string            `json:"proxy"`
}

// ChannelPayload is the request body of the channel creation endpoint.
type ChannelPayload struct {
	Mode          string  `json:"mode"`
	FanOutByModel bool    `json:"fan_out_by_model"`
	Channel       Channel `json:"channel"`
}

// Channel is the channel object nested in ChannelPayload.
// Settings, ModelMapping and Setting hold JSON text, not objects.
type Channel struct {
	Type              int      `json:"type"`
	MaxInputTokens    int      `json:"max_input_tokens"`
	Other             string   `json:"other"`
	Models            string   `json:"models"`
	AutoBan           int      `json:"auto_ban"`
	Groups            []string `json:"groups"`
	Priority          int      `json:"priority"`
	Weight            int      `json:"weight"`
	MultiKeyMode      string   `json:"multi_key_mode"`
	Settings          string   `json:"settings"`
	Name              string   `json:"name"`
	Key               string   `json:"key"`
	BaseURL           string   `json:"base_url"`
	TestModel         string   `json:"test_model"`
	ModelMapping      string   `json:"model_mapping"`
	Tag               string   `json:"tag"`
	StatusCodeMapping string   `json:"status_code_mapping"`
	Setting           string   `json:"setting"`
	Group             string   `json:"group"`
}

// ChannelSetting is serialized into Channel.Setting.
type ChannelSetting struct {
	ForceFormat            bool   `json:"force_format"`
	ThinkingToContent      bool   `json:"thinking_to_content"`
	Proxy                  string `json:"proxy"`
	PassThroughBodyEnabled bool   `json:"pass_through_body_enabled"`
	SystemPrompt           string `json:"system_prompt"`
	SystemPromptOverride   bool   `json:"system_prompt_override"`
	AutoDisableWebhookURL  string `json:"auto_disable_webhook_url"`
}

// PushResult is the outcome of pushing one credential.
type PushResult struct {
	Name       string        `json:"name"`
	StatusCode int           `json:"status_code"`
	Body       string        `json:"body"`
	Success    bool          `json:"success"`
	Message    string        `json:"message,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// PushReport aggregates all results of one batch.
type PushReport struct {
	Results   []PushResult `json:"results"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// Add appends a result and updates the counters.
func (r *PushReport) Add(result PushResult) {
	r.Results = append(r.Results, result)
	if result.Success {
		r.Succeeded++
	} else {
		r.Failed++
	}
}

// HasFailures reports whether any push failed.
func (r *PushReport) HasFailures() bool {
	return r.Failed > 0
}

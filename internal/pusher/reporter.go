package pusher

import (
	"fmt"
	"io"

	"antigravity2newapi/internal/core"
)

// Reporter prints push progress in the plain-text form operators expect
type Reporter struct {
	out io.Writer
}

var _ core.PushObserver = (*Reporter)(nil)

// NewReporter creates a reporter writing to out
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// BeforePush prints the credential being pushed
func (r *Reporter) BeforePush(cred core.Credential) {
	_, _ = fmt.Fprintf(r.out, "Pushing: %s...\n", cred.Name)
}

// AfterPush prints the raw status and body, or the transport error
func (r *Reporter) AfterPush(result core.PushResult) {
	if result.StatusCode == 0 && result.Error != "" {
		_, _ = fmt.Fprintf(r.out, "  Error: %s\n", result.Error)
		return
	}
	_, _ = fmt.Fprintf(r.out, "  Status: %d, Response: %s\n", result.StatusCode, result.Body)
}

// Summary prints the aggregated outcome and lists failed names
func (r *Reporter) Summary(report core.PushReport) {
	_, _ = fmt.Fprintf(r.out, "上传完成: 成功 %d 个, 失败 %d 个\n", report.Succeeded, report.Failed)
	for _, result := range report.Results {
		if result.Success {
			continue
		}
		reason := result.Error
		if reason == "" {
			reason = fmt.Sprintf("status %d", result.StatusCode)
			if result.Message != "" {
				reason += ": " + result.Message
			}
		}
		_, _ = fmt.Fprintf(r.out, "  失败: %s (%s)\n", result.Name, reason)
	}
}

package pusher

import (
	"bytes"
	"strings"
	"testing"

	"antigravity2newapi/internal/core"
)

func TestReporter_Lines(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.BeforePush(core.Credential{Name: "proj-1", Key: "k"})
	r.AfterPush(core.PushResult{Name: "proj-1", StatusCode: 200, Body: `{"success":true}`, Success: true})
	r.BeforePush(core.Credential{Name: "proj-2", Key: "k"})
	r.AfterPush(core.PushResult{Name: "proj-2", Error: "connection refused"})

	want := "Pushing: proj-1...\n" +
		"  Status: 200, Response: {\"success\":true}\n" +
		"Pushing: proj-2...\n" +
		"  Error: connection refused\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestReporter_Summary(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	var report core.PushReport
	report.Add(core.PushResult{Name: "a", StatusCode: 200, Success: true})
	report.Add(core.PushResult{Name: "b", StatusCode: 400, Message: "invalid"})
	report.Add(core.PushResult{Name: "c", Error: "timeout"})
	r.Summary(report)

	out := buf.String()
	if !strings.HasPrefix(out, "上传完成: 成功 1 个, 失败 2 个\n") {
		t.Errorf("unexpected summary header: %s", out)
	}
	if !strings.Contains(out, "失败: b (status 400: invalid)") {
		t.Errorf("missing status failure: %s", out)
	}
	if !strings.Contains(out, "失败: c (timeout)") {
		t.Errorf("missing transport failure: %s", out)
	}
	if strings.Contains(out, "失败: a") {
		t.Errorf("successful push listed as failure: %s", out)
	}
}

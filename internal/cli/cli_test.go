package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"antigravity2newapi/internal/core"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

func executeCmd(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), core.FilePermissionReadWrite); err != nil {
		t.Fatalf("写入临时文件失败: %v", err)
	}
	return path
}

func TestConvertCmd(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "tokens.txt", "rt-1\n\n  rt-2  \n")
	outPath := filepath.Join(dir, "accounts.json")

	out, err := executeCmd(newConvertCmd(outPath), in, "proj-x")
	if err != nil {
		t.Fatalf("convert 失败: %v", err)
	}
	if !strings.Contains(out, "共 2 个账号") {
		t.Errorf("输出缺少账号数量: %q", out)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("未生成输出文件: %v", err)
	}
	var accounts []core.Account
	if err := sonic.Unmarshal(data, &accounts); err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 2 || accounts[1].RefreshToken != "rt-2" || accounts[1].ProjectID != "proj-x" {
		t.Errorf("账号内容错误: %+v", accounts)
	}
}

func TestConvertCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"缺少参数", nil},
		{"参数过多", []string{"a", "b", "c"}},
		{"输入文件不存在", []string{"does-not-exist.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outPath := filepath.Join(t.TempDir(), "accounts.json")
			if _, err := executeCmd(newConvertCmd(outPath), tt.args...); err == nil {
				t.Fatal("期望返回错误")
			}
			if _, err := os.Stat(outPath); !os.IsNotExist(err) {
				t.Error("出错时不应生成输出文件")
			}
		})
	}
}

const pusherConfigTemplate = `{
  "endpoint": "%ENDPOINT%",
  "api_token": "secret",
  "api_user": "1",
  "channel": {
    "base_url": "http://upstream.local",
    "models": ["gemini-3-pro", "gemini-3-flash"],
    "model_mapping": {"gemini-3-pro": "gemini-3-pro-high"},
    "priority": 8,
    "tag": "Antigravity"
  },
  "credentials": [
    {"name": "proj-a", "key": "rt-a"},
    {"name": "proj-b", "key": "rt-b"}
  ]
}`

func clearPusherEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"NEW_API_ENDPOINT", "NEW_API_PASSWORD", "NEW_API_USER", "NEW_API_BASE_URL", "NEW_API_RETRY_MAX", "PUSHER_CONFIG"} {
		t.Setenv(key, "")
	}
}

func TestPusherCmd_PushesAndReports(t *testing.T) {
	clearPusherEnv(t)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "pusher.json", strings.ReplaceAll(pusherConfigTemplate, "%ENDPOINT%", srv.URL+"/api/channel/"))
	accountsPath := writeFile(t, dir, "accounts.json", `[
  {"refresh_token": "rt-c", "project_id": "proj-c"},
  {"refresh_token": "rt-d", "project_id": "proj-d", "enable": false},
  {"refresh_token": "rt-e"}
]`)

	out, err := executeCmd(NewPusherCmd(context.Background(), &core.NopLogger{}), "--config", cfgPath, "--accounts", accountsPath)
	if err != nil {
		t.Fatalf("pusher 失败: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("应推送 3 次，实际 %d", calls.Load())
	}
	for _, line := range []string{"Pushing: proj-a...", "Pushing: proj-c...", "  Status: 200, Response: {\"success\":true}", "上传完成: 成功 3 个, 失败 0 个"} {
		if !strings.Contains(out, line) {
			t.Errorf("输出缺少 %q:\n%s", line, out)
		}
	}
}

func TestPusherCmd_FailureExitsNonZero(t *testing.T) {
	clearPusherEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload core.ChannelPayload
		body, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(body, &payload)
		if payload.Channel.Name == "proj-a" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"success":false,"message":"db down"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfgPath := writeFile(t, t.TempDir(), "pusher.json", strings.ReplaceAll(pusherConfigTemplate, "%ENDPOINT%", srv.URL))

	out, err := executeCmd(NewPusherCmd(context.Background(), &core.NopLogger{}), "--config", cfgPath)
	if err == nil {
		t.Fatal("存在失败推送时应返回错误")
	}
	if !strings.Contains(out, "Pushing: proj-b...") {
		t.Errorf("失败后应继续推送下一个:\n%s", out)
	}
	if !strings.Contains(out, "上传完成: 成功 1 个, 失败 1 个") {
		t.Errorf("汇总错误:\n%s", out)
	}
}

func TestPusherCmd_DryRun(t *testing.T) {
	clearPusherEnv(t)

	cfgPath := writeFile(t, t.TempDir(), "pusher.json", strings.ReplaceAll(pusherConfigTemplate, "%ENDPOINT%", "http://127.0.0.1:1/api/channel/"))

	out, err := executeCmd(NewPusherCmd(context.Background(), &core.NopLogger{}), "--config", cfgPath, "--dry-run")
	if err != nil {
		t.Fatalf("dry-run 失败: %v", err)
	}
	if strings.Count(out, `"fan_out_by_model": true`) != 2 {
		t.Errorf("应输出 2 个 payload:\n%s", out)
	}
	if strings.Contains(out, "Pushing:") {
		t.Errorf("dry-run 不应发送请求:\n%s", out)
	}
}

func TestPusherCmd_ConfigErrors(t *testing.T) {
	clearPusherEnv(t)
	dir := t.TempDir()

	noCreds := strings.ReplaceAll(pusherConfigTemplate, "%ENDPOINT%", "http://127.0.0.1:1")
	noCreds = noCreds[:strings.Index(noCreds, `,
  "credentials"`)] + "\n}"

	tests := []struct {
		name string
		args []string
	}{
		{"配置文件不存在", []string{"--config", filepath.Join(dir, "missing.json")}},
		{"没有凭证", []string{"--config", writeFile(t, dir, "empty.json", noCreds)}},
		{"账号文件不存在", []string{"--config", writeFile(t, dir, "ok.json", noCreds), "--accounts", filepath.Join(dir, "nope.json")}},
		{"多余参数", []string{"extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeCmd(NewPusherCmd(context.Background(), &core.NopLogger{}), tt.args...); err == nil {
				t.Error("期望返回错误")
			}
		})
	}
}

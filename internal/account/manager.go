package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"antigravity2newapi/internal/core"
	"antigravity2newapi/internal/util"
)

// ErrInvalidIndex is returned when an account index is out of range
var ErrInvalidIndex = errors.New("无效的账号索引")

// Manager administers the stored account list
type Manager struct {
	storage core.AccountStorage
	logger  core.Logger
	mu      sync.Mutex
	now     func() time.Time
}

// ManagerConfig account manager configuration
type ManagerConfig struct {
	Storage core.AccountStorage
	Logger  core.Logger
}

// NewManager creates an account manager
func NewManager(config ManagerConfig) (*Manager, error) {
	if config.Storage == nil {
		return nil, fmt.Errorf("no account storage provided")
	}

	logger := config.Logger
	if logger == nil {
		logger = &core.NopLogger{}
	}

	return &Manager{
		storage: config.Storage,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// List returns all stored accounts
func (m *Manager) List() ([]core.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storage.LoadAccounts()
}

// Stats counts enabled and disabled accounts
func (m *Manager) Stats() (core.AccountStats, error) {
	accounts, err := m.List()
	if err != nil {
		return core.AccountStats{}, err
	}
	return CountAccounts(accounts), nil
}

// CountAccounts summarizes an account list. A missing enable flag counts as enabled.
func CountAccounts(accounts []core.Account) core.AccountStats {
	stats := core.AccountStats{Total: len(accounts)}
	for _, acc := range accounts {
		if acc.IsEnabled() {
			stats.Enabled++
		} else {
			stats.Disabled++
		}
	}
	return stats
}

// Delete removes the account at index
func (m *Manager) Delete(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts, err := m.storage.LoadAccounts()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(accounts) {
		return ErrInvalidIndex
	}

	accounts = append(accounts[:index], accounts[index+1:]...)
	if err := m.storage.SaveAccounts(accounts); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}

	m.logger.Info("账号 %d 已删除", index)
	return nil
}

// Toggle enables or disables the account at index
func (m *Manager) Toggle(index int, enable bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts, err := m.storage.LoadAccounts()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(accounts) {
		return ErrInvalidIndex
	}

	accounts[index].SetEnabled(enable)
	if err := m.storage.SaveAccounts(accounts); err != nil {
		return fmt.Errorf("failed to save accounts: %w", err)
	}

	state := "禁用"
	if enable {
		state = "启用"
	}
	m.logger.Info("账号 %d 已%s", index, state)
	return nil
}

// BatchAdd imports refresh_token----project_id lines. Invalid lines and refresh
// tokens that are already stored are skipped. Storage is only written when
// something was added.
func (m *Manager) BatchAdd(text string) (*core.BatchAddResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts, err := m.storage.LoadAccounts()
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(accounts))
	for _, acc := range accounts {
		known[acc.RefreshToken] = struct{}{}
	}

	result := &core.BatchAddResult{Credentials: []core.Credential{}}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		refreshToken, projectID, ok := parseBatchLine(trimmed)
		if !ok {
			m.logger.Warn("跳过无效行: %s", util.TruncateString(trimmed, 20, 0, "..."))
			result.Skipped++
			continue
		}

		if _, exists := known[refreshToken]; exists {
			m.logger.Info("跳过重复的 refresh_token: %s", util.GetTokenDisplayName(refreshToken))
			result.Skipped++
			continue
		}
		known[refreshToken] = struct{}{}

		acc := core.Account{
			RefreshToken: refreshToken,
			ProjectID:    projectID,
			Timestamp:    m.now().UnixMilli(),
		}
		acc.SetEnabled(true)
		accounts = append(accounts, acc)

		result.Credentials = append(result.Credentials, core.Credential{Name: projectID, Key: refreshToken})
		result.Added++
	}

	if result.Added > 0 {
		if err := m.storage.SaveAccounts(accounts); err != nil {
			return nil, fmt.Errorf("failed to save accounts: %w", err)
		}
	}

	m.logger.Info("批量添加完成: 成功 %d 个, 跳过 %d 个", result.Added, result.Skipped)
	result.Message = batchMessage(result)
	return result, nil
}

// AddAndPush imports the lines then pushes every newly added credential.
// A nil pusher only imports.
func (m *Manager) AddAndPush(ctx context.Context, text string, pusher core.ChannelPusher) (*core.BatchAddResult, error) {
	result, err := m.BatchAdd(text)
	if err != nil {
		return nil, err
	}

	if pusher != nil && len(result.Credentials) > 0 {
		m.logger.Info("开始上传 %d 个凭证到 New API...", len(result.Credentials))
		report := pusher.PushAll(ctx, result.Credentials, nil)
		result.Uploaded = report.Succeeded
		result.UploadFailed = report.Failed
		m.logger.Info("上传完成: 成功 %d 个, 失败 %d 个", result.Uploaded, result.UploadFailed)
	}

	result.Message = batchMessage(result)
	return result, nil
}

// parseBatchLine splits one trimmed line into refresh token and project id
func parseBatchLine(line string) (refreshToken, projectID string, ok bool) {
	parts := strings.Split(line, core.BatchLineSeparator)
	if len(parts) != 2 {
		return "", "", false
	}

	refreshToken = strings.TrimSpace(parts[0])
	projectID = strings.TrimSpace(parts[1])
	if refreshToken == "" || projectID == "" {
		return "", "", false
	}
	return refreshToken, projectID, true
}

func batchMessage(result *core.BatchAddResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "成功添加 %d 个账号", result.Added)
	if result.Skipped > 0 {
		fmt.Fprintf(&b, "，跳过 %d 个", result.Skipped)
	}
	if result.Uploaded > 0 {
		fmt.Fprintf(&b, "，已上传 %d 个", result.Uploaded)
	}
	if result.UploadFailed > 0 {
		fmt.Fprintf(&b, "，上传失败 %d 个", result.UploadFailed)
	}
	return b.String()
}

// CredentialsFromAccounts turns enabled accounts with a project id into push credentials
func CredentialsFromAccounts(accounts []core.Account) []core.Credential {
	creds := make([]core.Credential, 0, len(accounts))
	for _, acc := range accounts {
		if !acc.IsEnabled() || acc.ProjectID == "" || acc.RefreshToken == "" {
			continue
		}
		creds = append(creds, core.Credential{Name: acc.ProjectID, Key: acc.RefreshToken})
	}
	return creds
}

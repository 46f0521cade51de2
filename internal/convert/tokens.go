package convert

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"antigravity2newapi/internal/core"
	"antigravity2newapi/internal/util"
)

// ParseTokens builds one account per non-blank line. projectID is attached to
// every record when non-empty.
func ParseTokens(r io.Reader, projectID string) ([]core.Account, error) {
	accounts := make([]core.Account, 0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), core.MaxResponseBodySize)
	for scanner.Scan() {
		token := strings.TrimSpace(scanner.Text())
		if token == "" {
			continue
		}

		account := core.Account{RefreshToken: token}
		if projectID != "" {
			account.ProjectID = projectID
		}
		accounts = append(accounts, account)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tokens: %w", err)
	}

	return accounts, nil
}

// WriteAccounts writes accounts as a 2-space indented JSON array, replacing the file
func WriteAccounts(path string, accounts []core.Account) error {
	if accounts == nil {
		accounts = []core.Account{}
	}

	data, err := util.MarshalIndentJSON(accounts)
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}

	if err := os.WriteFile(path, data, core.FilePermissionReadWrite); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ConvertFile converts a token list file into an accounts file and returns the record count.
// Nothing is written when the input cannot be read.
func ConvertFile(inPath, outPath, projectID string) (int, error) {
	file, err := os.Open(inPath) //nolint:gosec // G304: path given on the command line
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", inPath, err)
	}
	defer func() { _ = file.Close() }()

	accounts, err := ParseTokens(file, projectID)
	if err != nil {
		return 0, err
	}

	if err := WriteAccounts(outPath, accounts); err != nil {
		return 0, err
	}

	return len(accounts), nil
}

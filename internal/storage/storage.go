package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"antigravity2newapi/internal/core"
	"antigravity2newapi/internal/util"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// FileStorage keeps the account list in a JSON file
type FileStorage struct {
	filePath string
}

func NewFileStorage(filePath string) *FileStorage {
	if filePath == "" {
		filePath = core.DefaultAccountsStoreFile
	}
	return &FileStorage{filePath: filePath}
}

// Path returns the backing file path
func (fs *FileStorage) Path() string {
	return fs.filePath
}

func (fs *FileStorage) SaveAccounts(accounts []core.Account) error {
	if accounts == nil {
		accounts = []core.Account{}
	}

	data, err := util.MarshalIndentJSON(accounts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(fs.filePath); dir != "" {
		if err := os.MkdirAll(dir, core.DirPermission); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(fs.filePath, data, core.FilePermissionReadWrite)
}

func (fs *FileStorage) LoadAccounts() ([]core.Account, error) {
	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []core.Account{}, nil
		}
		return nil, err
	}

	return decodeAccounts(data)
}

func (fs *FileStorage) Close() error {
	return nil
}

// RedisStorage keeps the account list as one JSON value in Redis
type RedisStorage struct {
	client *redis.Client
	ctx    context.Context
	key    string
}

// RedisStorageConfig Redis storage config
type RedisStorageConfig struct {
	URL string
	Key string
}

func NewRedisStorage(config RedisStorageConfig) (*RedisStorage, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	ctx := context.Background()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, err
	}

	key := config.Key
	if key == "" {
		key = core.AccountsRedisKey
	}

	return &RedisStorage{client: client, ctx: ctx, key: key}, nil
}

func (rs *RedisStorage) SaveAccounts(accounts []core.Account) error {
	if accounts == nil {
		accounts = []core.Account{}
	}

	data, err := util.MarshalJSON(accounts)
	if err != nil {
		return err
	}
	return rs.client.Set(rs.ctx, rs.key, data, 0).Err()
}

func (rs *RedisStorage) LoadAccounts() ([]core.Account, error) {
	val, err := rs.client.Get(rs.ctx, rs.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []core.Account{}, nil
		}
		return nil, err
	}

	return decodeAccounts([]byte(val))
}

func (rs *RedisStorage) Close() error {
	return rs.client.Close()
}

func decodeAccounts(data []byte) ([]core.Account, error) {
	var accounts []core.Account
	if err := sonic.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}
	if accounts == nil {
		accounts = []core.Account{}
	}
	return accounts, nil
}

// InitStorage picks Redis when REDIS_URL is set and reachable, otherwise the accounts file
func InitStorage(logger core.Logger) core.AccountStorage {
	if logger == nil {
		logger = &core.NopLogger{}
	}

	filePath := util.GetEnvWithDefault("ACCOUNTS_FILE", core.DefaultAccountsStoreFile)

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisStorage, err := NewRedisStorage(RedisStorageConfig{
			URL: redisURL,
			Key: core.AccountsRedisKey,
		})
		if err != nil {
			logger.Warn("Failed to initialize Redis storage: %v, falling back to file storage", err)
			return NewFileStorage(filePath)
		}
		logger.Info("Using Redis storage")
		return redisStorage
	}

	logger.Info("Using file storage: %s", filePath)
	return NewFileStorage(filePath)
}

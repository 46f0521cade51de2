package core

import (
	"context"
	"time"
)

// Logger interface
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Fatal(format string, args ...any)
}

// AccountStorage persists the account list
type AccountStorage interface {
	LoadAccounts() ([]Account, error)
	SaveAccounts(accounts []Account) error
	Close() error
}

// MetricsCollector records channel push outcomes
type MetricsCollector interface {
	RecordPush(success bool, duration time.Duration, name string)
}

// PushObserver is notified around every push of a batch
type PushObserver interface {
	BeforePush(cred Credential)
	AfterPush(result PushResult)
}

// ChannelPusher pushes credentials as channels
type ChannelPusher interface {
	PushAll(ctx context.Context, creds []Credential, observer PushObserver) PushReport
}

// NopLogger empty logger implementation
type NopLogger struct{}

func (*NopLogger) Debug(format string, args ...any) {}
func (*NopLogger) Info(format string, args ...any)  {}
func (*NopLogger) Warn(format string, args ...any)  {}
func (*NopLogger) Error(format string, args ...any) {}
func (*NopLogger) Fatal(format string, args ...any) {}

// NopMetrics empty metrics collector implementation
type NopMetrics struct{}

func (*NopMetrics) RecordPush(success bool, duration time.Duration, name string) {}

package pusher

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"antigravity2newapi/internal/channel"
	"antigravity2newapi/internal/config"
	"antigravity2newapi/internal/core"
	"antigravity2newapi/internal/util"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

// retryLogger adapts core.Logger to retryablehttp.LeveledLogger
type retryLogger struct {
	logger core.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error("[RETRY] %s %v", msg, keysAndValues)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn("[RETRY] %s %v", msg, keysAndValues)
}

func (l *retryLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("[RETRY] %s %v", msg, keysAndValues)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug("[RETRY] %s %v", msg, keysAndValues)
}

// Options pusher client options
type Options struct {
	Config     config.PusherConfig
	HTTPClient *http.Client
	Logger     core.Logger
	Metrics    core.MetricsCollector
}

// Client pushes credentials to the channel endpoint
type Client struct {
	endpoint   string
	apiToken   string
	apiUser    string
	template   core.ChannelTemplate
	httpClient *http.Client
	logger     core.Logger
	metrics    core.MetricsCollector
}

var _ core.ChannelPusher = (*Client)(nil)

// NewClient creates a pusher client
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = &core.NopLogger{}
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = &core.NopMetrics{}
	}

	baseClient := opts.HTTPClient
	if baseClient == nil {
		baseClient = createHTTPClient(opts.Config.HTTPClientSettings)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = baseClient
	retryClient.RetryMax = opts.Config.RetryMax
	retryClient.RetryWaitMin = core.DefaultRetryWaitMin
	retryClient.RetryWaitMax = core.DefaultRetryWaitMax
	retryClient.Logger = &retryLogger{logger: logger}
	// keep the last response so its status and body can be reported
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		endpoint:   opts.Config.Endpoint,
		apiToken:   opts.Config.APIToken,
		apiUser:    opts.Config.APIUser,
		template:   opts.Config.Channel,
		httpClient: retryClient.StandardClient(),
		logger:     logger,
		metrics:    metrics,
	}
}

func createHTTPClient(settings config.HTTPClientSettings) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          settings.MaxIdleConns,
		MaxIdleConnsPerHost:   settings.MaxIdleConnsPerHost,
		IdleConnTimeout:       settings.IdleConnTimeout,
		TLSHandshakeTimeout:   settings.TLSHandshakeTimeout,
		ResponseHeaderTimeout: core.HTTPResponseHeaderTimeout,
		ExpectContinueTimeout: core.HTTPExpectContinueTimeout,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   settings.RequestTimeout,
	}
}

// BuildPayload builds the request body for a credential using the client's channel template
func (c *Client) BuildPayload(cred core.Credential) (*core.ChannelPayload, error) {
	return channel.BuildPayload(c.template, cred)
}

// Push creates one channel. Failures are returned in the result, never as a panic or error.
func (c *Client) Push(ctx context.Context, cred core.Credential) core.PushResult {
	start := time.Now()
	result := c.push(ctx, cred)
	result.Duration = time.Since(start)

	c.metrics.RecordPush(result.Success, result.Duration, cred.Name)
	return result
}

func (c *Client) push(ctx context.Context, cred core.Credential) core.PushResult {
	result := core.PushResult{Name: cred.Name}

	payload, err := c.BuildPayload(cred)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	req, err := util.CreateJSONRequest(ctx, http.MethodPost, c.endpoint, payload, c.apiToken)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result
	}
	req.Header.Set(core.HeaderNewAPIUser, c.apiUser)

	resp, err := c.httpClient.Do(req) //nolint:gosec // endpoint comes from operator config
	if err != nil {
		result.Error = err.Error()
		c.logger.Error("Push %s failed: %v", util.GetCredentialDisplayName(cred), err)
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := util.ReadLimitedBody(resp.Body)
	result.StatusCode = resp.StatusCode
	result.Body = string(body)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read response: %v", err)
		return result
	}

	result.Success, result.Message = interpretResponse(resp.StatusCode, body)
	if result.Success {
		c.logger.Info("Push %s succeeded", util.GetCredentialDisplayName(cred))
	} else {
		c.logger.Warn("Push %s failed with status %d: %s", util.GetCredentialDisplayName(cred), resp.StatusCode, result.Body)
	}
	return result
}

// interpretResponse treats 200/201 as success unless the body reports "success": false.
func interpretResponse(statusCode int, body []byte) (bool, string) {
	success := slices.Contains(core.PushSuccessStatuses, statusCode)

	if !gjson.ValidBytes(body) {
		return success, ""
	}

	message := gjson.GetBytes(body, "message").String()
	if flag := gjson.GetBytes(body, "success"); flag.Exists() && flag.Type == gjson.False {
		success = false
	}
	return success, message
}

// PushAll pushes every credential in order. A failed pair does not stop the
// batch; once ctx is done the remaining pairs are reported as failed.
func (c *Client) PushAll(ctx context.Context, creds []core.Credential, observer core.PushObserver) core.PushReport {
	report := core.PushReport{Results: make([]core.PushResult, 0, len(creds))}

	for _, cred := range creds {
		if observer != nil {
			observer.BeforePush(cred)
		}

		var result core.PushResult
		if err := ctx.Err(); err != nil {
			result = core.PushResult{Name: cred.Name, Error: err.Error()}
		} else {
			result = c.safePush(ctx, cred)
		}

		report.Add(result)
		if observer != nil {
			observer.AfterPush(result)
		}
	}

	c.logger.Info("Push finished: %d succeeded, %d failed", report.Succeeded, report.Failed)
	return report
}

func (c *Client) safePush(ctx context.Context, cred core.Credential) (result core.PushResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Push %s panicked: %v", util.GetCredentialDisplayName(cred), r)
			result = core.PushResult{Name: cred.Name, Error: fmt.Sprintf("panic: %v", r)}
		}
	}()
	return c.Push(ctx, cred)
}

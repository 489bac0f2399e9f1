// Package jobqueue schedules delayed HTTP callbacks through Upstash QStash.
package jobqueue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/career-league/internal/platform/logging"
	"github.com/riskibarqy/career-league/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrTransient marks failures where QStash may accept the same job later.
var ErrTransient = errors.New("qstash transient failure")

type Config struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// QStashQueue publishes jobs that QStash delivers back to TargetBaseURL+path
// after the requested delay. QStash drops a job whose deduplication id it
// has already accepted.
type QStashQueue struct {
	client           *http.Client
	baseURL          string
	token            string
	targetBaseURL    string
	retries          int
	internalJobToken string
	breaker          *resilience.CircuitBreaker
	logger           *logging.Logger
}

func NewQStashQueue(cfg Config, logger *logging.Logger) *QStashQueue {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &QStashQueue{
		client:           &http.Client{Timeout: timeout},
		baseURL:          strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		breaker:          resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		logger:           logger,
	}
}

func (q *QStashQueue) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return errors.New("job path is required")
	}

	baseURL, err := validateHTTPBaseURL(q.baseURL)
	if err != nil {
		return errors.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(q.targetBaseURL)
	if err != nil {
		return errors.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	if payload == nil {
		payload = map[string]any{}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal job payload")
	}

	targetURL := targetBaseURL + path
	publishURL := baseURL + "/v2/publish/" + targetURL
	dedup := strings.TrimSpace(deduplicationID)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.target_url", targetURL),
			attribute.String("qstash.delay", formatDelay(delay)),
			attribute.String("qstash.deduplication_id", dedup),
		)
	}

	err = q.breaker.Execute(ctx, func(ctx context.Context) error {
		return q.publish(ctx, publishURL, targetURL, body, delay, dedup)
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		q.logger.WarnContext(ctx, "qstash circuit breaker rejected job", "path", path, "state", q.breaker.State())
		return errors.Mark(errors.Wrap(err, "qstash is temporarily unavailable"), ErrTransient)
	}
	if err != nil {
		q.logger.WarnContext(ctx, "qstash publish failed",
			"path", path,
			"deduplication_id", dedup,
			"curl_preview", curlPreview(publishURL, path, formatDelay(delay), q.retries, dedup, truncateForLog(string(body), 4096), q.internalJobToken != ""),
			"error", err,
		)
		return err
	}

	q.logger.InfoContext(ctx, "qstash job published", "path", path, "delay", formatDelay(delay), "deduplication_id", dedup)
	return nil
}

func (q *QStashQueue) publish(ctx context.Context, publishURL, targetURL string, body []byte, delay time.Duration, dedup string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create qstash request")
	}
	req.Header.Set("Authorization", "Bearer "+q.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Upstash-Method", http.MethodPost)
	if q.retries > 0 {
		req.Header.Set("Upstash-Retries", strconv.Itoa(q.retries))
	}
	if delay > 0 {
		req.Header.Set("Upstash-Delay", formatDelay(delay))
	}
	if dedup != "" {
		req.Header.Set("Upstash-Deduplication-Id", dedup)
	}
	if q.internalJobToken != "" {
		req.Header.Set("Upstash-Forward-X-Internal-Job-Token", q.internalJobToken)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Mark(errors.Wrapf(err, "publish qstash job target_url=%s", targetURL), ErrTransient)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	callErr := errors.Newf("publish qstash job status=%d target_url=%s body=%s", resp.StatusCode, targetURL, strings.TrimSpace(string(raw)))
	if isRetryableStatus(resp.StatusCode) {
		return errors.Mark(callErr, ErrTransient)
	}
	return callErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func formatDelay(delay time.Duration) string {
	if delay <= 0 {
		return "0s"
	}
	return fmt.Sprintf("%ds", int64(delay.Round(time.Second)/time.Second))
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", errors.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", errors.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", errors.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

// curlPreview renders a redacted curl command for failure logs.
func curlPreview(publishURL, path, delay string, retries int, dedup, body string, withForwardToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	header := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl -X POST")
	appendPart(shellQuote(publishURL))
	header("Authorization: Bearer ***")
	header("Content-Type: application/json")
	header("Upstash-Method: POST")
	if retries > 0 {
		header("Upstash-Retries: " + strconv.Itoa(retries))
	}
	if delay != "" && delay != "0s" {
		header("Upstash-Delay: " + delay)
	}
	if dedup != "" {
		header("Upstash-Deduplication-Id: " + dedup)
	}
	if withForwardToken {
		header("Upstash-Forward-X-Internal-Job-Token: ***")
	}
	appendPart("-d")
	appendPart(shellQuote(body))
	appendPart("#")
	appendPart(shellQuote("path=" + path))
	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

package tracemoe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"animeid/internal/logging"
	"animeid/internal/services"
	"animeid/internal/upload"
)

const (
	// DefaultEndpoint is the public trace.moe search endpoint.
	DefaultEndpoint = "https://api.trace.moe/search"
	// FieldName is the multipart field carrying the image bytes.
	FieldName = "image"

	defaultTimeout        = 30 * time.Second
	defaultMaxUploadBytes = 25 * 1024 * 1024
	maxResponseBytes      = 4 * 1024 * 1024
	component             = "tracemoe"
)

// Searcher is the search operation the controller depends on.
type Searcher interface {
	Search(ctx context.Context, candidate *upload.Candidate) (*Outcome, error)
}

// Config describes the trace.moe client configuration.
type Config struct {
	Endpoint          string
	APIKey            string
	Timeout           time.Duration
	MaxUploadBytes    int64
	RequestsPerMinute int
	HTTPClient        *http.Client
	Logger            *slog.Logger
}

// Client wraps the trace.moe search API.
type Client struct {
	endpoint       *url.URL
	apiKey         string
	maxUploadBytes int64
	http           *http.Client
	limiter        *rate.Limiter
	logger         *slog.Logger
}

var _ Searcher = (*Client)(nil)

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.Endpoint)
	if raw == "" {
		raw = DefaultEndpoint
	}
	endpoint, err := url.Parse(raw)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "parse endpoint", raw, err)
	}
	if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
		return nil, services.Wrap(services.ErrConfiguration, component, "parse endpoint", fmt.Sprintf("unsupported scheme in %q", raw), nil)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &Client{
		endpoint:       endpoint,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxUploadBytes: maxUpload,
		http:           client,
		limiter:        limiter,
		logger:         logging.NewComponentLogger(cfg.Logger, component),
	}, nil
}

// Search uploads the candidate and returns the ranked matches. A response
// without matches, or a success body that cannot be decoded, yields an empty
// Outcome and a nil error.
func (c *Client) Search(ctx context.Context, candidate *upload.Candidate) (*Outcome, error) {
	if c == nil {
		return nil, errors.New("tracemoe: client is nil")
	}
	if candidate == nil || candidate.Data == nil {
		return nil, services.Wrap(services.ErrValidation, component, "search", "no image data staged", upload.ErrNoCandidate)
	}
	if int64(len(candidate.Data)) > c.maxUploadBytes {
		return nil, services.Wrap(services.ErrValidation, component, "search",
			fmt.Sprintf("image is %d bytes, ceiling is %d", len(candidate.Data), c.maxUploadBytes), upload.ErrTooLarge)
	}
	logger := logging.WithContext(ctx, c.logger)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, services.Wrap(services.ErrTransport, component, "search", "waiting for request slot", err)
		}
	}

	body, contentType, err := encodeMultipart(candidate)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, component, "search", "encode multipart body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), body)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "search", "build request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-trace-key", c.apiKey)
	}

	logger.Debug("uploading image",
		logging.String("endpoint", c.endpoint.Redacted()),
		logging.Int64("bytes", candidate.Size),
		logging.String("mime_type", candidate.MediaType()),
	)

	started := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(started)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, component, "search", fmt.Sprintf("request failed (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, component, "search", "read response", err)
	}

	if resp.StatusCode >= 400 {
		upstreamErr := &UpstreamError{StatusCode: resp.StatusCode, Message: upstreamMessage(payload)}
		logger.Info("trace.moe rejected search",
			logging.Int("status", resp.StatusCode),
			logging.Duration("latency", latency),
			logging.Error(upstreamErr),
		)
		return nil, upstreamErr
	}

	var decoded searchResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		logging.WarnWithContext(logger, "trace.moe returned an unreadable body", "malformed_response",
			logging.Int("status", resp.StatusCode),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check tracemoe.endpoint points at the search API"),
			logging.String(logging.FieldImpact, "search reported as no match"),
		)
		return &Outcome{}, nil
	}
	if msg := strings.TrimSpace(decoded.Error); msg != "" {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}

	outcome := &Outcome{
		Matches:    make([]Match, 0, len(decoded.Result)),
		FrameCount: decoded.FrameCount,
	}
	for i, raw := range decoded.Result {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var wm wireMatch
		if err := json.Unmarshal(raw, &wm); err != nil {
			logging.WarnWithContext(logger, "skipping unreadable match", "malformed_match",
				logging.Int("index", i),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "report the payload if trace.moe changed its response format"),
				logging.String(logging.FieldImpact, "one candidate match is missing from the results"),
			)
			continue
		}
		outcome.Matches = append(outcome.Matches, wm.toMatch())
	}
	Rank(outcome.Matches)

	logger.Info("search finished",
		logging.Int("matches", len(outcome.Matches)),
		logging.Int64("frames_compared", outcome.FrameCount),
		logging.Duration("latency", latency),
	)
	return outcome, nil
}

// Rank orders matches by descending similarity, keeping upstream order for
// equal scores.
func Rank(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
}

func encodeMultipart(candidate *upload.Candidate) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FieldName, partFilename(candidate)))
	contentType := candidate.MediaType()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(candidate.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

func partFilename(candidate *upload.Candidate) string {
	name := strings.TrimSpace(candidate.Name)
	if name == "" {
		return "image"
	}
	return strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(name)
}

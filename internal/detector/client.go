package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// Failure classes the orchestrator needs to tell apart.
var (
	// ErrUnavailable means the detection service could not be reached
	// (connection refused, DNS failure, or the request timed out).
	ErrUnavailable = errors.New("area detection service is unavailable")
	// ErrService means the service answered but with an error status or
	// a payload that could not be parsed.
	ErrService = errors.New("area detection service error")
	// ErrInvalidMeasurement means the service reported a missing,
	// zero, or negative area.
	ErrInvalidMeasurement = errors.New("invalid area measurement")
)

// Measurement is the result of one detection call. Not persisted.
type Measurement struct {
	// Area is the detected vegetation area in square meters, > 0.
	Area float64
	// GSD echoes the caller-declared ground sample distance (m/px).
	GSD float64
}

// Client talks to the external tree-crown detection service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a detection client against baseURL. The timeout
// bounds the whole call; a zero timeout falls back to 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type areaResponse struct {
	Area *float64 `json:"area"`
}

// MeasureArea submits the image and its declared GSD to the detection
// service and returns the measured area. One attempt, no retries;
// retry policy belongs to the caller.
func (c *Client) MeasureArea(ctx context.Context, image []byte, filename string, gsd float64) (*Measurement, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidMeasurement)
	}
	if gsd <= 0 {
		return nil, fmt.Errorf("%w: gsd must be positive", ErrInvalidMeasurement)
	}
	if filename == "" {
		filename = "image.jpg"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("write image part: %w", err)
	}
	if err := writer.WriteField("gsd", strconv.FormatFloat(gsd, 'f', -1, 64)); err != nil {
		return nil, fmt.Errorf("write gsd field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	url := fmt.Sprintf("%s/area", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Connection refused, unreachable host, or timeout all land here.
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrService, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrService, resp.StatusCode, string(body))
	}

	var parsed areaResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v", ErrService, err)
	}

	if parsed.Area == nil || *parsed.Area <= 0 {
		return nil, ErrInvalidMeasurement
	}

	return &Measurement{Area: *parsed.Area, GSD: gsd}, nil
}

package testcalls

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// PostAudio performs a multipart POST with the recording under "audio"
func (c *HTTPClient) PostAudio(ctx context.Context, url string, audio []byte) (*http.Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", "call.webm")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitCalls submits calls concurrently using worker pools
func submitCalls(ctx context.Context, config *Config, calls []Call, stats *Stats) ([]Event, error) {
	log.Printf("📤 Submitting %d calls with %d workers...", len(calls), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/v1/calls"

	// Counters for statistics
	var (
		successful int64
		failed     int64
		submitted  int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	callChan := make(chan Call, config.Workers*WorkerChannelMultiplier)
	var (
		mu       sync.Mutex
		received []Event
		wg       sync.WaitGroup
	)

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for call := range callChan {
				select {
				case <-ctx.Done():
					return
				default:
					event, ok := submitSingleCall(ctx, client, url, call)

					atomic.AddInt64(&submitted, 1)
					if ok {
						atomic.AddInt64(&successful, 1)
						mu.Lock()
						received = append(received, event)
						mu.Unlock()
					} else {
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (success: %d, failed: %d)",
								total, len(calls), succ, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (success: %d, failed: %d)",
								total, len(calls), succ, fail)
						}
					}
				}
			}
		}(i)
	}

	// Send calls to workers
	go func() {
		defer close(callChan)
		for _, call := range calls {
			select {
			case <-ctx.Done():
				return
			case callChan <- call:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.CallsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.CallsSuccessful = int(atomic.LoadInt64(&successful))
	stats.CallsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Call submission completed:
   Successful: %d
   Failed: %d
`, stats.CallsSuccessful, stats.CallsFailed)

	return received, nil
}

// submitSingleCall submits one recording and decodes the event response
func submitSingleCall(ctx context.Context, client *HTTPClient, url string, call Call) (Event, bool) {
	resp, err := client.PostAudio(ctx, url, call.Audio)
	if err != nil {
		return Event{}, false
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Event{}, false
	}

	if resp.StatusCode != StatusOK {
		return Event{}, false
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, false
	}
	return event, true
}

// fetchRecentEvents retrieves the stored event feed
func fetchRecentEvents(ctx context.Context, config *Config, limit int) ([]Event, error) {
	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/v1/events?limit=%d", config.BaseURL, limit)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read events response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("events request failed with status: %d", resp.StatusCode)
	}

	var feed EventsResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to decode events response: %w", err)
	}
	return feed.Events, nil
}

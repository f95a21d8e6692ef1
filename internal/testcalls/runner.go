package testcalls

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/mayday/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete call test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting mayday call test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("calls", config.NumCalls),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Subscribe to the live feed before submitting anything
	observer, err := startObserver(ctx, config)
	if err != nil {
		return fmt.Errorf("observer subscription failed: %w", err)
	}
	defer observer.Close()

	// Step 3: Generate calls
	calls, err := generateCalls(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("call generation failed: %w", err)
	}

	// Step 4: Submit calls concurrently
	submitted, err := submitCalls(ctx, config, calls, stats)
	if err != nil {
		return fmt.Errorf("call submission failed: %w", err)
	}

	// Step 5: Let in-flight broadcasts drain
	logger.Get().Info(ctx, "waiting for broadcasts to drain")
	time.Sleep(ProcessingDrainDelay)

	// Step 6: Fetch the stored event feed
	stored, err := fetchRecentEvents(ctx, config, config.NumCalls)
	if err != nil {
		return fmt.Errorf("event retrieval failed: %w", err)
	}
	stats.EventsStored = len(stored)

	// Step 7: Verify results
	observed := observer.Events()
	stats.EventsObserved = len(observed)
	if err := verifyResults(ctx, config, submitted, stored, observed, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 8: Save submitted calls to file
	if err := saveCallsToFile(ctx, config, calls); err != nil {
		logger.Get().Warn(ctx, "failed to save calls to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveCallsToFile saves the submitted calls to a JSON file.
func saveCallsToFile(ctx context.Context, config *Config, calls []Call) error {
	if len(calls) == 0 {
		return fmt.Errorf("no calls to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "submitted_calls_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}
	for i, call := range calls {
		line := fmt.Sprintf("  {\"scenario\": %q, \"phrase\": %q}", call.Scenario, call.Phrase)
		if i < len(calls)-1 {
			line += ","
		}
		if _, err := file.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write call %d: %w", i, err)
		}
	}
	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "calls saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, callsPerSecond float64

	if stats.CallsSubmitted > 0 {
		successRate = float64(stats.CallsSuccessful) / float64(stats.CallsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		callsPerSecond = float64(stats.CallsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("callsGenerated", stats.CallsGenerated),
		logger.Int("callsSubmitted", stats.CallsSubmitted),
		logger.Int("callsSuccessful", stats.CallsSuccessful),
		logger.Int("callsFailed", stats.CallsFailed),
		logger.Int("eventsStored", stats.EventsStored),
		logger.Int("eventsObserved", stats.EventsObserved),
		logger.String("duration", stats.Duration.String()),
		logger.Any("successRate", successRate),
		logger.Any("callsPerSecond", callsPerSecond))
}

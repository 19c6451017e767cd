// poll-videos watches a user's videos through the API's read path until
// every one of them reaches a terminal state, mirroring what the upload
// dashboard does in the browser.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/minhtq/vodsync/internal/query"
	"github.com/minhtq/vodsync/shared/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	apiURL := flag.String("api-url", envOr("VODSYNC_API_URL", "http://localhost:8080"), "Base URL of the API service")
	userID := flag.String("user", os.Getenv("VODSYNC_USER_ID"), "Principal id to poll videos for")
	interval := flag.Duration("interval", query.DefaultPollInterval, "Poll interval")
	timeout := flag.Duration("timeout", 10*time.Minute, "Give up after this long")
	flag.Parse()

	if *userID == "" {
		return fmt.Errorf("a user id is required (-user or VODSYNC_USER_ID)")
	}

	appLogger := logger.NewDefault()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Stop cleanly between polls on Ctrl-C.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	client := &http.Client{Timeout: 10 * time.Second}
	fetch := func(ctx context.Context) (bool, error) {
		return fetchProcessing(ctx, client, *apiURL, *userID, appLogger.Logger)
	}

	poller := query.NewPoller(fetch, *interval, appLogger.Logger)
	if err := poller.Run(ctx); err != nil {
		return fmt.Errorf("polling ended: %w", err)
	}
	return nil
}

// fetchProcessing performs one poll against the list endpoint and reports
// whether anything is still uploading or preparing.
func fetchProcessing(ctx context.Context, client *http.Client, apiURL, userID string, log *slog.Logger) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/api/v1/videos", nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("X-User-ID", userID)

	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("list videos returned status %d", resp.StatusCode)
	}

	var payload struct {
		Videos []struct {
			VideoID string `json:"video_id"`
			Status  string `json:"status"`
		} `json:"videos"`
		Processing bool `json:"processing"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, fmt.Errorf("decode list response: %w", err)
	}

	for _, v := range payload.Videos {
		log.Info("Video status",
			slog.String("video_id", v.VideoID),
			slog.String("status", v.Status),
		)
	}
	return payload.Processing, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

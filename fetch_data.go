package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// FetchResultsCSV downloads one season's results file for a division
// from football-data.co.uk and writes it to path. The same files the
// model consumes can be downloaded by hand from
// https://www.football-data.co.uk/data.php.
func FetchResultsCSV(division, season, path string) error {
	url := fmt.Sprintf("https://www.football-data.co.uk/mmz4281/%s/%s.csv", season, division)
	fmt.Printf("Fetching %s...\n", url)

	client := &http.Client{Timeout: 30 * time.Second}

	body, err := fetchWithRetry(client, url)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Printf("Saved %d bytes to %s\n", len(body), path)
	return nil
}

// fetchWithRetry downloads a URL with backoff on transient errors.
func fetchWithRetry(client *http.Client, url string) ([]byte, error) {
	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 2s, 4s
			backoffDelay := time.Duration(2<<uint(attempt-1)) * time.Second
			time.Sleep(backoffDelay)
		}

		req, err := http.NewRequest("GET", url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept", "text/csv,text/plain,*/*")

		resp, err := client.Do(req)
		if err != nil {
			if attempt < maxRetries-1 {
				continue // Retry on network error
			}
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("reading response: %w", err)
			}
			return body, nil
		}
		resp.Body.Close()

		// Server busy, retry
		if resp.StatusCode == http.StatusServiceUnavailable && attempt < maxRetries-1 {
			continue
		}

		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, url)
	}

	return nil, fmt.Errorf("unexpected end of retry loop")
}

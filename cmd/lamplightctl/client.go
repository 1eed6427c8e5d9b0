package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/PeytonLeFleur/lamp-and-light/internal/config"
	"github.com/PeytonLeFleur/lamp-and-light/internal/platform/factory"
)

func newClient(apiURL string) *resty.Client {
	return resty.New().SetBaseURL(apiURL).SetHeader("Content-Type", "application/json")
}

func post(apiURL, path string, body interface{}, out io.Writer) error {
	resp, err := newClient(apiURL).R().SetBody(body).Post(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	_, err = fmt.Fprintln(out, resp.String())
	return err
}

func runPlanToday(apiURL, profileID string, out io.Writer) error {
	return post(apiURL, "/api/profiles/"+profileID+"/plans/today", nil, out)
}

func runRecapWeek(apiURL, profileID string, out io.Writer) error {
	return post(apiURL, "/api/profiles/"+profileID+"/recaps/week", nil, out)
}

func runEntryAdd(apiURL, profileID, kind, content string, tags []string, out io.Writer) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content cannot be empty")
	}
	body := map[string]interface{}{
		"kind":    kind,
		"content": content,
		"tags":    tags,
	}
	return post(apiURL, "/api/profiles/"+profileID+"/entries", body, out)
}

// runCachePurge removes cached content files from the local disk cache. It
// only touches .json files so an accidentally misconfigured directory does
// not lose unrelated data.
func runCachePurge(dir string, out io.Writer) error {
	if dir == "" {
		resolved, err := factory.CacheDir(&config.Config{})
		if err != nil {
			return err
		}
		dir = resolved
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	removed := 0
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return err
		}
		removed++
	}
	_, err = fmt.Fprintf(out, "purged %d cached entries from %s\n", removed, dir)
	return err
}

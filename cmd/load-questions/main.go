package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"regex-game/internal/config"
	"regex-game/internal/questions"

	"github.com/spf13/cobra"
)

type uploadRequest struct {
	HostToken string            `json:"host_token"`
	Questions []questions.Entry `json:"questions"`
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).Execute())
}

func run(ctx context.Context, cfg *Config, out io.Writer) error {
	entries, err := readQuestions(cfg.file)
	if err != nil {
		return err
	}
	if cfg.dryRun {
		for i, entry := range entries {
			fmt.Fprintf(out, "%d\t%ds\t%s\t%q\n", i+1, entry.TimeSeconds, entry.ReferencePattern, entry.TargetString)
		}
		return nil
	}
	count, err := upload(ctx, cfg, entries)
	if err != nil {
		return err
	}
	log.Printf("loaded %d questions game_id=%s", count, cfg.gameID)
	return nil
}

func readQuestions(path string) ([]questions.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return questions.ParseCSV(file)
}

func upload(ctx context.Context, cfg *Config, entries []questions.Entry) (int, error) {
	data, err := json.Marshal(uploadRequest{HostToken: cfg.hostToken, Questions: entries})
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()
	url := strings.TrimRight(cfg.server, "/") + "/api/games/" + cfg.gameID + "/questions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var body struct {
		Count int    `json:"count"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, body.Error)
	}
	return body.Count, nil
}

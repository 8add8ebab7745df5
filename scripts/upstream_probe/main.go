package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type result struct {
	Target   target
	Status   int
	Duration time.Duration
	Error    error
}

// Probes the content API with the gateway's service token so a broken
// deployment shows up before the dashboard does.
func main() {
	var (
		baseURL     string
		token       string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:3000", "Content API base URL")
	flag.StringVar(&token, "token", os.Getenv("UPSTREAM_SERVICE_TOKEN"), "Service bearer token")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "upstream_probe", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var failures int

	results := make([]result, 0, len(targets))
	for _, t := range targets {
		res := probeTarget(client, baseURL, token, t)
		if res.Error != nil || res.Status >= http.StatusBadRequest {
			if t.Critical {
				failures++
			}
		}
		results = append(results, res)
	}

	printReport(results)

	fmt.Printf("Critical failures: %d\n", failures)
	if failures > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func probeTarget(client *http.Client, baseURL, token string, tgt target) result {
	res := result{Target: tgt}

	req, err := http.NewRequest(tgt.Method, baseURL+tgt.Path, nil)
	if err != nil {
		res.Error = err
		return res
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	res.Status = resp.StatusCode
	return res
}

func printReport(results []result) {
	fmt.Println("METHOD PATH                         STATUS  DURATION")
	for _, r := range results {
		status := fmt.Sprintf("%d", r.Status)
		if r.Error != nil {
			status = "ERR"
		}
		marker := " "
		if r.Target.Critical && (r.Error != nil || r.Status >= http.StatusBadRequest) {
			marker = "!"
		}
		fmt.Printf("%s %-6s %-28s %-7s %s\n", marker, r.Target.Method, r.Target.Path, status, r.Duration.Round(time.Millisecond))
		if r.Error != nil {
			fmt.Printf("    error: %v\n", r.Error)
		}
	}
}

package announce

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"reservation-coordinator/internal/config"
)

func ConfigFromEnv(cfg config.AnnounceConfig) (Config, error) {
	out := Config{
		Workers:             cfg.Workers,
		RetryMax:            cfg.RetryMax,
		RetryBase:           cfg.RetryBase,
		FailureThreshold:    cfg.FailureThreshold,
		CircuitOpenDuration: cfg.CircuitOpen,
		RequestTimeout:      cfg.RequestTimeout,
		DispatchBuffer:      256,
	}
	if out.RetryMax < 0 {
		out.RetryMax = 0
	}
	raw, err := loadTargetsJSON(cfg)
	if err != nil {
		return Config{}, err
	}
	if raw == "" {
		return out, nil
	}
	targets, err := parseTargetsJSON(raw)
	if err != nil {
		return Config{}, err
	}
	out.Targets = targets
	return out, nil
}

func loadTargetsJSON(cfg config.AnnounceConfig) (string, error) {
	path := strings.TrimSpace(cfg.TargetsPath)
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read announce targets %q: %w", path, err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return strings.TrimSpace(cfg.TargetsJSON), nil
}

func parseTargetsJSON(raw string) ([]Target, error) {
	var targets []Target
	if err := json.Unmarshal([]byte(raw), &targets); err != nil {
		return nil, fmt.Errorf("parse announce targets: %w", err)
	}
	filtered := make([]Target, 0, len(targets))
	for _, target := range targets {
		target.Platform = strings.ToLower(strings.TrimSpace(target.Platform))
		target.Endpoint = strings.TrimSpace(target.Endpoint)
		if target.Endpoint == "" || !target.Enabled {
			continue
		}
		for i := range target.EventAllowlist {
			target.EventAllowlist[i] = strings.TrimSpace(strings.ToLower(target.EventAllowlist[i]))
		}
		filtered = append(filtered, target)
	}
	return filtered, nil
}

// Command certify runs the gateway certification scenarios against the
// certification (test) endpoint pair and appends the formatted results to a
// file, one line per test case, in the layout the certification analyst
// expects.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/SendOutCards/chase/orbital"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

type certConfig struct {
	MerchantID string `yaml:"merchant_id"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Platform   string `yaml:"platform"`
	Results    string `yaml:"results"`
	LogLevel   string `yaml:"log_level"`
}

func loadConfig(path string) (certConfig, error) {
	cfg := certConfig{Platform: orbital.PlatformSalem, Results: "results.txt"}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.MerchantID == "" || cfg.Username == "" || cfg.Password == "" {
		return cfg, fmt.Errorf("merchant_id, username and password are required")
	}
	return cfg, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	configPath := flag.String("config", "certify.yaml", "path to certification config")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}.NewTextHandler(os.Stderr))

	client, err := orbital.New(orbital.Config{
		MerchantID: cfg.MerchantID,
		Username:   cfg.Username,
		Password:   cfg.Password,
		Platform:   cfg.Platform,
		Logger:     logger,
		// Certification always runs against the test endpoints.
		Production: false,
	})
	if err != nil {
		logger.Error("building client", slog.Any("err", err))
		os.Exit(1)
	}

	out, err := os.OpenFile(cfg.Results, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Error("opening results file", slog.Any("err", err))
		os.Exit(1)
	}
	defer out.Close()

	cert := newCertification(client, out, logger)
	if err := cert.run(); err != nil {
		logger.Error("certification run failed", slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("certification complete", slog.String("results", cfg.Results))
}

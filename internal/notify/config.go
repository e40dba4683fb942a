package notify

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// GatewayConfig describes the push gateway the delivery worker POSTs to.
type GatewayConfig struct {
	// URL of the push gateway endpoint.
	URL string `yaml:"url"`
	// AuthToken is sent as a bearer token when set.
	AuthToken string `yaml:"auth_token"`
	// Timeout for each delivery request.
	Timeout time.Duration `yaml:"timeout"`
}

// LoadGatewayConfig reads and validates the YAML gateway config.
func LoadGatewayConfig(path string) (*GatewayConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read push config: %w", err)
	}

	var cfg GatewayConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse push config: %w", err)
	}

	if cfg.URL == "" {
		return nil, fmt.Errorf("push config: url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &cfg, nil
}

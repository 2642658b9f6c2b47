package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/censo-resguardo/censo-backend/pkg/survey/types"
	"github.com/censo-resguardo/censo-backend/pkg/utils"
)

// ClientConfig configures the HTTP geolocation bridge client.
type ClientConfig struct {
	RootURL string        `json:"root_url" yaml:"root_url"`
	APIKey  string        `json:"api_key" yaml:"api_key"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ClientConfigYaml is the yaml representation of ClientConfig, with the
// timeout as a duration string.
type ClientConfigYaml struct {
	RootURL string `yaml:"root_url"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

func ClientConfigFromYamlObj(yamlObj ClientConfigYaml) ClientConfig {
	config := ClientConfig{
		RootURL: yamlObj.RootURL,
		APIKey:  yamlObj.APIKey,
	}
	if yamlObj.Timeout != "" {
		timeout, err := utils.ParseDurationString(yamlObj.Timeout)
		if err != nil {
			slog.Error("could not parse geolocation timeout, using default", slog.String("error", err.Error()))
		} else {
			config.Timeout = timeout
		}
	}
	return config
}

// BridgeClient is a Provider backed by a local geolocation bridge service
// (the device-side daemon exposing the GPS over HTTP).
type BridgeClient struct {
	config ClientConfig
}

func NewBridgeClient(config ClientConfig) *BridgeClient {
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	return &BridgeClient{config: config}
}

type bridgeResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Error     string  `json:"error,omitempty"`
}

func (c *BridgeClient) Current(ctx context.Context) (coords types.Coordinates, err error) {
	client := &http.Client{
		Timeout: c.config.Timeout,
	}

	endpoint := c.config.RootURL + "/current-position"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		slog.Error("unexpected error in preparing http request", slog.String("error", err.Error()))
		return coords, err
	}
	if c.config.APIKey != "" {
		req.Header.Set("Api-Key", c.config.APIKey)
	}

	res, err := client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &urlErr) && urlErr.Timeout()) {
			return coords, ErrTimeout
		}
		return coords, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusForbidden || res.StatusCode == http.StatusUnauthorized {
		return coords, ErrPermissionDenied
	}

	var payload bridgeResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		slog.Error("Error decoding bridge response", slog.String("error", err.Error()))
		return coords, err
	}
	if payload.Error != "" {
		return coords, errors.New(payload.Error)
	}

	return types.Coordinates{Latitude: payload.Latitude, Longitude: payload.Longitude}, nil
}

package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcprelay/mcprelay/client"
	"github.com/viant/afs"
)

// Config is the optional file form of the bridge settings. The URL may point
// at a local path or any storage scheme afs understands.
type Config struct {
	URL            string  `json:"url,omitempty"`
	Token          string  `json:"token,omitempty"`
	TimeoutSec     int     `json:"timeoutSec,omitempty"`
	MaxRetries     *int    `json:"maxRetries,omitempty"`
	BaseDelaySec   float64 `json:"baseDelaySec,omitempty"`
	MaxDelaySec    float64 `json:"maxDelaySec,omitempty"`
	PooledSessions bool    `json:"pooledSessions,omitempty"`
}

func loadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", URL, err)
	}
	config := &Config{}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", URL, err)
	}
	return config, nil
}

// connectionConfig folds flags and an optional config file into the client
// connection settings.
func (o *Options) connectionConfig(fileConfig *Config) client.Config {
	ret := client.Config{
		URL:        o.URL,
		Timeout:    time.Duration(o.Timeout) * time.Second,
		MaxRetries: o.Retries,
		BaseDelay:  secondsToDuration(o.BaseDelay),
		MaxDelay:   secondsToDuration(o.MaxDelay),
	}
	if fileConfig == nil {
		return ret
	}
	if fileConfig.URL != "" {
		ret.URL = fileConfig.URL
	}
	if fileConfig.TimeoutSec > 0 {
		ret.Timeout = time.Duration(fileConfig.TimeoutSec) * time.Second
	}
	if fileConfig.MaxRetries != nil && *fileConfig.MaxRetries >= 0 {
		ret.MaxRetries = *fileConfig.MaxRetries
	}
	if fileConfig.BaseDelaySec > 0 {
		ret.BaseDelay = secondsToDuration(fileConfig.BaseDelaySec)
	}
	if fileConfig.MaxDelaySec > 0 {
		ret.MaxDelay = secondsToDuration(fileConfig.MaxDelaySec)
	}
	return ret
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

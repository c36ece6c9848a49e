package api

import (
	"github.com/taxdesk/clientsearch/internal/config"
	"github.com/taxdesk/clientsearch/internal/logging"
)

// ConfigFromGlobal reads the client settings from the loaded configuration.
func ConfigFromGlobal() Config {
	return Config{
		BaseURL:  config.Get("base_url", ""),
		UserID:   config.Get("user_id", ""),
		Timeout:  config.GetDuration("request_timeout", DefaultTimeout),
		RetryMax: config.GetInt("retry_max", 0),
		Logger:   logging.GetGlobal(),
	}
}

// NewClientFromConfig builds a client from the loaded configuration.
func NewClientFromConfig() (*Client, error) {
	return NewClient(ConfigFromGlobal())
}

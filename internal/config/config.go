// Copyright (C) 2025 SAGE-X Project
//
// This file is part of sage-pay-go.
//
// sage-pay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// sage-pay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with sage-pay-go.  If not, see <https://www.gnu.org/licenses/>.

// Package config loads sage-pay-go settings from a YAML file and SAGEPAY_*
// environment variables.
package config

import (
	"time"

	sagepay "github.com/sage-x-project/sage-pay-go"
)

// Config is the file and environment representation of a merchant setup.
// Key material is referenced by path; APIKey may be given inline.
type Config struct {
	Merchant MerchantConfig `mapstructure:"merchant"`
	API      APIConfig      `mapstructure:"api"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// MerchantConfig is the merchant identity
type MerchantConfig struct {
	AppID           string `mapstructure:"app_id"`
	MchID           string `mapstructure:"mch_id"`
	SerialNo        string `mapstructure:"serial_no"`
	CertificatePath string `mapstructure:"certificate_path"`
	PrivateKeyPath  string `mapstructure:"private_key_path"`
	APIKey          string `mapstructure:"api_key"`
	APIKeyPath      string `mapstructure:"api_key_path"`
}

// APIConfig controls outbound requests
type APIConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	AuthType        string        `mapstructure:"auth_type"`
	UserAgent       string        `mapstructure:"user_agent"`
	Timeout         time.Duration `mapstructure:"timeout"`
	VerifyResponses bool          `mapstructure:"verify_responses"`
}

// ServerConfig controls the notification receiver
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	NotifyPath   string        `mapstructure:"notify_path"`
	MaxClockSkew time.Duration `mapstructure:"max_clock_skew"`
}

// LogConfig controls logger construction
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:         sagepay.DefaultBaseURL,
			AuthType:        sagepay.DefaultAuthScheme,
			Timeout:         30 * time.Second,
			VerifyResponses: true,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			NotifyPath:   "/notify",
			MaxClockSkew: 5 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

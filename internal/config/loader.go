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

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sage-x-project/sage-pay-go/pkg/client"
	"github.com/sage-x-project/sage-pay-go/pkg/metrics"
)

// EnvPrefix prefixes every environment override, e.g. SAGEPAY_MERCHANT_MCH_ID
const EnvPrefix = "SAGEPAY"

// Load reads path (YAML) on top of the defaults and applies environment
// overrides. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides apply even when
// the file does not mention them
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("merchant.app_id", d.Merchant.AppID)
	v.SetDefault("merchant.mch_id", d.Merchant.MchID)
	v.SetDefault("merchant.serial_no", d.Merchant.SerialNo)
	v.SetDefault("merchant.certificate_path", d.Merchant.CertificatePath)
	v.SetDefault("merchant.private_key_path", d.Merchant.PrivateKeyPath)
	v.SetDefault("merchant.api_key", d.Merchant.APIKey)
	v.SetDefault("merchant.api_key_path", d.Merchant.APIKeyPath)

	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.auth_type", d.API.AuthType)
	v.SetDefault("api.user_agent", d.API.UserAgent)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.verify_responses", d.API.VerifyResponses)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.notify_path", d.Server.NotifyPath)
	v.SetDefault("server.max_clock_skew", d.Server.MaxClockSkew)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
}

// ClientConfig reads the referenced key material and returns a client.Config
func (c *Config) ClientConfig(logger *zap.Logger, m *metrics.Metrics) (client.Config, error) {
	cfg := client.Config{
		AppID:           c.Merchant.AppID,
		MchID:           c.Merchant.MchID,
		SerialNo:        c.Merchant.SerialNo,
		AuthType:        c.API.AuthType,
		UserAgent:       c.API.UserAgent,
		BaseURL:         c.API.BaseURL,
		Timeout:         c.API.Timeout,
		VerifyResponses: c.API.VerifyResponses,
		Logger:          logger,
		Metrics:         m,
	}

	var err error
	if cfg.PublicCert, err = readOptional(c.Merchant.CertificatePath); err != nil {
		return cfg, err
	}
	if cfg.PrivateKey, err = readOptional(c.Merchant.PrivateKeyPath); err != nil {
		return cfg, err
	}

	switch {
	case c.Merchant.APIKey != "":
		cfg.APIKey = []byte(c.Merchant.APIKey)
	case c.Merchant.APIKeyPath != "":
		key, err := readOptional(c.Merchant.APIKeyPath)
		if err != nil {
			return cfg, err
		}
		cfg.APIKey = []byte(strings.TrimSpace(string(key)))
	}

	return cfg, cfg.Validate()
}

func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

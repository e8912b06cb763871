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


// Package sagepay provides version information for sage-pay-go and the
// payment platform API it targets.
package sagepay

const (
	// Version is the current version of sage-pay-go
	Version = "1.0.0-alpha"

	// APIVersion is the platform API generation this library signs requests for
	APIVersion = "v3"

	// DefaultAuthScheme is the authorization scheme used when none is configured
	DefaultAuthScheme = "WECHATPAY2-SHA256-RSA2048"

	// DefaultBaseURL is the platform API host
	DefaultBaseURL = "https://api.mch.weixin.qq.com"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	SagePayVersion string
	APIVersion     string
	AuthScheme     string
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		SagePayVersion: Version,
		APIVersion:     APIVersion,
		AuthScheme:     DefaultAuthScheme,
	}
}

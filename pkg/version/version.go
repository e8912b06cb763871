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

// Package version reports the library and platform API versions at runtime.
package version

import sagepay "github.com/sage-x-project/sage-pay-go"

const (
	// Version is the current version of sage-pay-go
	Version = sagepay.Version

	// APIVersion is the platform API generation
	APIVersion = sagepay.APIVersion

	// AuthScheme is the default authorization scheme
	AuthScheme = sagepay.DefaultAuthScheme
)

// Info contains version information reported to callers and in User-Agent strings
type Info struct {
	SagePayVersion string
	APIVersion     string
	AuthScheme     string
}

// Get returns the version information
func Get() Info {
	return Info{
		SagePayVersion: Version,
		APIVersion:     APIVersion,
		AuthScheme:     AuthScheme,
	}
}

// UserAgent returns the default User-Agent value sent with every request
func UserAgent() string {
	return "sage-pay-go/" + Version
}

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

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionConstants(t *testing.T) {
	// Verify version constants are not empty
	assert.NotEmpty(t, Version, "Version should not be empty")
	assert.NotEmpty(t, APIVersion, "APIVersion should not be empty")
	assert.NotEmpty(t, AuthScheme, "AuthScheme should not be empty")

	// Verify expected values
	assert.Equal(t, "1.0.0-alpha", Version)
	assert.Equal(t, "v3", APIVersion)
	assert.Equal(t, "WECHATPAY2-SHA256-RSA2048", AuthScheme)
}

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, Version, info.SagePayVersion)
	assert.Equal(t, APIVersion, info.APIVersion)
	assert.Equal(t, AuthScheme, info.AuthScheme)
}

func TestInfoStruct(t *testing.T) {
	info := Info{
		SagePayVersion: "test-version",
		APIVersion:     "v3",
		AuthScheme:     "TEST-SCHEME",
	}

	assert.Equal(t, "test-version", info.SagePayVersion)
	assert.Equal(t, "v3", info.APIVersion)
	assert.Equal(t, "TEST-SCHEME", info.AuthScheme)
}

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "sage-pay-go/"+Version, UserAgent())
}

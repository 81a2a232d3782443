// Copyright (c) 2025 Fidelia
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides utilities for secure logging and error presentation.
// It includes functions for masking sensitive information in log messages and
// formatting errors for user-friendly display while protecting credentials.
//
// The package helps ensure that sensitive data like passwords and bearer
// tokens are not accidentally exposed in diagnostics shown to users.
package logging

import (
	"regexp"
	"strings"
)

var (
	rePassword  = regexp.MustCompile(`(?i)("password"\s*:\s*")([^"]+)(")`)
	rePassKV    = regexp.MustCompile(`(?i)(password=)([^\s;&]+)`)
	reToken     = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reTokenJSON = regexp.MustCompile(`(?i)("token"\s*:\s*")([^"]+)(")`)
)

// Mask replaces sensitive values in the input string with "***".
// Both key=value pairs and JSON bodies are covered.
func Mask(s string) string {
	out := s
	out = rePassword.ReplaceAllString(out, `$1***$3`)
	out = rePassKV.ReplaceAllString(out, "$1***")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reTokenJSON.ReplaceAllString(out, `$1***$3`)
	// Basic env-like pairs key=VALUE; mask common secret keys
	for _, k := range []string{"FIDELIA_TOKEN", "ACCESS_TOKEN"} {
		out = strings.ReplaceAll(out, k+"=", k+"=***")
	}
	return out
}

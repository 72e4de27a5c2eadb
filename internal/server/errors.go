// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// ErrNotConfigured is returned by NewServer when there is no listen address
// or no router to serve.
var ErrNotConfigured = errors.New("server is not configured: address and router are required")

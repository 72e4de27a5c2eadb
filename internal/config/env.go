// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv reads a fresh [StructuredConfig] from the environment. Variable
// names come from the env and envPrefix tags, e.g. APP_SESSION_TTL or
// STORAGE_DB_DATABASE_URI. Unset variables leave zero values for the later
// sources and the defaults to fill.
func parseEnv() (*StructuredConfig, error) {
	cfg, err := env.ParseAs[StructuredConfig]()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadingEnv, err)
	}
	return &cfg, nil
}

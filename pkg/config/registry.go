// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Registry memoizes the parsed tenant table and API-key table for the
// lifetime of the process. The first successful parse wins; later calls
// return the cached value even if the raw source has changed. An absent or
// malformed source yields nil so the caller can answer with a configuration
// error instead of panicking mid-request.
type Registry struct {
	log *zap.SugaredLogger

	mu        sync.Mutex
	platforms map[string]Platform
	apiKeys   map[string]string
}

func NewRegistry(log *zap.SugaredLogger) *Registry {
	return &Registry{log: log}
}

// ResolvePlatforms parses raw into the platform table. raw may be an
// already-structured map[string]Platform or a JSON-encoded string.
func (r *Registry) ResolvePlatforms(raw interface{}) map[string]Platform {
	switch v := raw.(type) {
	case map[string]Platform:
		if v == nil {
			r.log.Error("platform registry is not configured")
			return nil
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.platforms == nil {
			r.platforms = v
		}
		return r.platforms

	case string:
		if v == "" {
			r.log.Error("platform registry is not configured")
			return nil
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.platforms != nil {
			return r.platforms
		}
		var parsed map[string]Platform
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			r.log.Errorw("failed to parse platform registry", "error", err)
			return nil
		}
		r.platforms = parsed
		return r.platforms

	default:
		r.log.Error("platform registry is not configured")
		return nil
	}
}

// ResolveAPIKeys parses the JSON-encoded per-tenant key table. Returns nil
// when raw is empty or malformed; a nil table only disables per-tenant keys,
// the shared key may still authorize requests.
func (r *Registry) ResolveAPIKeys(raw string) map[string]string {
	if raw == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.apiKeys != nil {
		return r.apiKeys
	}

	var parsed map[string]string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		r.log.Errorw("failed to parse API key registry", "error", err)
		return nil
	}
	r.apiKeys = parsed
	return r.apiKeys
}

// Package config handles gateway configuration: YAML file loading with
// environment overlays for the secret-bearing registries, and the sticky
// lazy-parsed platform and API-key registries.
package config

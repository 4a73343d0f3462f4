// Package config loads and validates the circuit-guard configuration.
//
// Configuration is read from config.yaml (searched in ./config and the
// working directory) with environment variable overrides. Each entry in
// the breakers list names a protected dependency, its preset kind
// (api, database or external) and optional per-field overrides.
package config

// Package config loads the process configuration from the environment,
// merging in a .env file when one is present. All entrypoints share the
// one Config type; credentials are validated at startup and telemetry
// settings degrade gracefully when absent.
package config

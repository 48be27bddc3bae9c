// Package config loads, normalizes, and validates Flickvault
// configuration from TOML files with environment fallbacks for
// credentials.
package config

// Package config loads, normalizes, and validates blacksys configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STEAM_USERNAME. The Config type centralizes the directories, external tool
// binaries, and encoder presets every workflow needs so the transcode, Steam,
// and packaging commands discover them in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

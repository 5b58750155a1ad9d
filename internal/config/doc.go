// Package config loads and validates the linkpeek daemon's YAML
// configuration, filling sensible defaults for absent fields, and watches
// the file for changes so preview tunables can be applied without a restart.
package config

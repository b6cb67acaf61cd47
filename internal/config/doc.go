// Package config loads the wavecal TOML configuration.
//
// [Load] starts from [Default], overlays the file when it exists, then
// normalizes paths and validates every section. The *Options methods turn a
// loaded Config into the functional options of the calibration packages.
package config

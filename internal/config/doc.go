// Package config loads the tuning parameters of a tracking run.
//
// The canonical defaults live in config/tuning.defaults.json at the
// repository root and mirror the compiled-in fallbacks returned by the
// Get* accessors.
package config

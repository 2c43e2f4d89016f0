// Package factory provides a small generic registry used to build pluggable
// components from configuration. Metrics sinks register themselves under a
// type name and are created from a list of ModuleConfig entries.
package factory

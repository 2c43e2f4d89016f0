// Package metrics defines how bridge operations are recorded. Recorders
// such as the Prometheus and InfluxDB sinks in infra/metrics register
// themselves by name; NewRecorder builds one from configuration and wraps
// several in a MultiRecorder.
package metrics

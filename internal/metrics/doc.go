// Package metrics records build, fetch and media metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no caller needs nil checks:
//
//	type Resolver struct {
//	    recorder metrics.Recorder
//	}
//
// The serve command activates PrometheusRecorder and exposes it on /metrics;
// the build command can dump the same registry to a node-exporter textfile.
package metrics

// Package metrics provides occupancy and operation metrics for hotelkeys.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics cost nothing unless configured:
//
//	reg, _ := registry.Initialize(ctx, store, 20) // NoopRecorder
//
//	recorder := metrics.NewPrometheusRecorder(promRegistry)
//	reg, _ := registry.Initialize(ctx, store, 20, registry.WithRecorder(recorder))
//
// hotelkeys is a short-lived CLI, so there is no scrape endpoint. Instead the
// Prometheus registry is written to a node-exporter textfile with WriteTextfile
// after each command.
package metrics

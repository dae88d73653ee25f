/*
Package observability collects the metrics of an analysis run.

Each Metrics value owns a private Prometheus registry, so runs never share
collectors. A one-shot CLI run exports it with WriteToTextfile, in the
format read by the node_exporter textfile collector.
*/
package observability

/*
Package observability turns engine lifecycle hooks into Prometheus metrics.

Metrics.Hooks returns a domain.LifecycleHooks value to pass to the engine; Handler
exposes a registry over HTTP for scraping.
*/
package observability

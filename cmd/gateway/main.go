// Gateway is the public-facing entry point for the video-sharing
// application. It serves the browser-facing pages, aggregates JSON
// from the metadata and history services, and pipes video bytes to
// and from the streaming and upload services without buffering.
//
// Usage:
//
//	# Start with default configuration
//	gateway run
//
//	# Start with a custom configuration file
//	gateway run --config /etc/gateway/config.yaml
//
//	# Validate configuration without starting
//	gateway validate
//
//	# Query the request audit trail
//	gateway audit --limit 50
//
//	# Show version information
//	gateway version
package main

func main() {
	Execute()
}

package cmd

import (
	"github.com/scatterbrainlabs/scatterbrain/internal/client"
)

// getClient returns an HTTP client for the configured server URL.
func getClient() *client.Client {
	return client.New(GetConfig().Server.URL)
}

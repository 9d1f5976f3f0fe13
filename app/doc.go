// Package app assembles the habit service: configuration, the credential
// store selected by storage.driver, the credential service, the HTTP API and
// telemetry, all run by a bootstrap.App.
package app

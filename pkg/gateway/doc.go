// Package gateway defines the publish/submit boundary of the form builder:
// creating a published form from a schema, fetching it by id, recording
// submissions, listing and deleting forms. Client talks to the HTTP server
// shipped in cmd/formbuilder-server; the server's forms service implements
// the same interface in process.
package gateway

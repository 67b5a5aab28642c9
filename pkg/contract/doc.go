// Package contract describes the submission payload of a form as an OpenAPI 3
// document and checks payloads against it. Hosts publish the document next to
// the form so API clients can submit without rendering the form first.
package contract

// Package api is the client side of the certificate REST API: endpoint paths,
// the shared response envelope, and an HTTP client that posts JSON and
// multipart payloads.
//
// The client imposes no timeouts and never retries. Anything the transport
// rejects, and any body that is not a JSON envelope, surfaces as a
// *TransportError; a non-2xx status with a JSON body is an ordinary response.
package api

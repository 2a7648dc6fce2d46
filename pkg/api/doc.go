// Package api implements the Gin-based HTTP server for the email gateway:
// origin policy enforcement, request logging, panic recovery, liveness and
// metrics endpoints, and controller registration.
package api

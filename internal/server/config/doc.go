// Package config handles configuration for the reference API server,
// including defaults, a JSON or YAML overlay, AUTHAPP_SERVER_ environment
// variables and command-line flags, applied in that order.
//
// Supported flags
//
//	-a string   listen address (e.g., ":5000")
//	-k string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-l string   log level
package config

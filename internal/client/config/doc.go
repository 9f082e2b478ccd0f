// Package config loads runtime configuration for the authapp CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. The format follows
//     the extension: .json, .yaml or .yml.
//  3. A .env file in the working directory, if any, then the process
//     environment. Variables carry the AUTHAPP_ prefix.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the authentication API
//	-s string   path of the local session store
//	-t int      request timeout (seconds)
//	-l string   log level: debug, info, warn, error
//
// # Environment
//
//	AUTHAPP_API_BASE_URL, AUTHAPP_STORE_PATH, AUTHAPP_REQUEST_TIMEOUT,
//	AUTHAPP_LOG_LEVEL, AUTHAPP_LOG_FORMAT
//
// # File schema
//
// Durations are either strings like "10s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000",
//	  "store_path": "authapp.db",
//	  "request_timeout": "10s",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
package config

// Package config loads runtime configuration for the bookflix CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed BOOKFLIX_, optionally from a .env file.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the bookflix API
//	-d string   path of the local session database
//	-t int      request timeout (seconds)
//	-p string   no-subscription policy ("free" or "error")
//
// Environment
//
//	BOOKFLIX_API_URL, BOOKFLIX_REFRESH_PATH, BOOKFLIX_SEARCH_PATH,
//	BOOKFLIX_DB_PATH, BOOKFLIX_REQUEST_TIMEOUT, BOOKFLIX_SEARCH_DEBOUNCE,
//	BOOKFLIX_MAX_RETRIES, BOOKFLIX_RPS, BOOKFLIX_NO_SUBSCRIPTION_POLICY,
//	BOOKFLIX_REQUIRE_NAMES, BOOKFLIX_REQUIRE_PHONE,
//	BOOKFLIX_REQUIRE_BIRTHDATE, BOOKFLIX_LOG_LEVEL
//
// # JSON schema
//
// Durations are timex.Duration values: strings like "300ms" or integer
// nanoseconds. Keys that are absent keep their previous value.
//
//	{
//	  "api_base_url": "http://localhost:8000/api",
//	  "db_path": "bookflix.db",
//	  "request_timeout": "15s",
//	  "search_debounce": "300ms",
//	  "max_retries": 2,
//	  "no_subscription_policy": "free",
//	  "require_names": true
//	}
package config

// Package config reads plume's configuration file.
//
// The file lives at ~/.config/plume/config.toml and holds the instance base
// URL, the access token, an optional default account to open, and the
// statuses page size:
//
//	server = "https://example.social"
//	access_token = "..."
//	account = "alice@example.social"
//	page_size = 20
//
// A missing file is not an error; Load returns defaults and the caller may
// fill in the server and account from command-line flags. Paths starting
// with ~ are expanded against the user's home directory.
package config

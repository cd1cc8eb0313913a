// Package file provides file-based configuration for hsarchive.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage with dot-notation keys
//   - LoadSettings: builds domain.Settings from a ConfigStore and the environment
//
// Secrets never live in the TOML file. They are read from the process
// environment, falling back to a .env file loaded with godotenv.
package file

// Package config handles loading and validating SQLite Web Manager configuration.
//
// This package manages:
//   - Loading configuration from an optional YAML file
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The managed database file is located by, in order of precedence,
// SQLWEB_DATABASE_PATH, DATABASE_PATH, the database.path key of the
// config file, and finally DefaultDatabasePath. The result is made absolute
// once at load time.
//
// Security Considerations:
//   - Broker passwords and InfluxDB tokens should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Database.Path)
package config

// Package config handles loading and validating fermsim configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The simulator is designed to start with no configuration file at all:
// LoadOrDefault falls back to built-in defaults that match the emulated
// controller's out-of-the-box behaviour (port 8080, password "admin",
// noise seed 42). A YAML file or FERMSIM_* environment variables adjust
// individual values from there.
//
// Security Considerations:
//   - Sensitive values (passwords, tokens) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.LoadOrDefault("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.API.Port)
package config

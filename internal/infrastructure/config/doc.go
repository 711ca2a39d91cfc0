// Package config loads and validates the heritage catalog configuration.
//
// Loading order:
//   - hard-coded defaults
//   - YAML file values
//   - HERITAGE_* environment variables
//
// Secrets (session secret, MQTT password, InfluxDB token) should be supplied
// through the environment rather than committed to the YAML file.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Server.Address())
package config

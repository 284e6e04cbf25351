// Package config loads service configuration from YAML files, .env files and
// the process environment.
//
// Files are located by service name (cmd/<name>/config.yml, config/config.yml,
// ./config.yml and the matching .env files) unless given explicitly. Every
// environment variable is bound under its nested key variants, so
// EUREKA_DEFAULT_URL populates eureka.default_url.
//
//	var cfg AgentConfig
//	err := config.LoadConfig("eureka-agent", &cfg, config.WithConfigFile(path))
package config

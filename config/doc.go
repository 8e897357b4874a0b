// Package config provides configuration loading and validation for the
// analyzer.
//
// It uses Viper to load a YAML file and godotenv to load a .env file, then
// binds every environment variable onto the nested config keys so that
// LLM_BASE_URL overrides llm.base_url and SESSION_TTL overrides session.ttl.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("analyzer", &cfg)
package config

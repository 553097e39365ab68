// Package config loads program configuration with Viper.
//
// Values come from registered defaults, a config.yml found next to the
// program or in the user config directory, and the environment. A .env
// file is loaded first when present. Environment variables map onto nested
// keys, so OLLAMA_HOST overrides ollama.host.
//
//	var cfg CLIConfig
//	err := config.Load("ollamachat", &cfg,
//	    config.WithDefaults(map[string]any{"ollama.host": "http://localhost:11434"}))
package config

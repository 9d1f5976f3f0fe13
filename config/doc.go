// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment using Viper.
//
// # Usage
//
//	var cfg app.Config
//	err := config.LoadConfig("habit", &cfg, config.WithEnvPrefix("HABIT"))
//
// Environment variables override file values. With prefix HABIT,
// HABIT_AUTH_JWT_SECRET sets auth.jwt.secret.
package config

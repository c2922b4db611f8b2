// Package config loads service configuration with Viper.
//
// LoadConfig reads a YAML file found under ./cmd/<service>/, ./config/ or the
// working directory, loads a .env file with godotenv, then applies environment
// overrides. Every key can be overridden by its upper-cased path:
//
//	cfg := AppConfig{Subscription: subscription.DefaultConfig()}
//	err := config.LoadConfig("livesse", &cfg)
//	// SUBSCRIPTION_URL=https://... overrides subscription.url
package config

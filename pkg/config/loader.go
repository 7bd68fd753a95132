package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"

	"github.com/utafrali/brand-admin/pkg/validator"
)

// Load parses environment variables into the provided struct and then runs
// the struct's `validate` tags. Fields use `env` tags for their mapping.
//
// Example:
//
//	type Config struct {
//	    Port       int    `env:"HTTP_PORT" envDefault:"8080" validate:"gte=1,lte=65535"`
//	    CatalogURL string `env:"CATALOG_SERVICE_URL" validate:"required,url"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := validator.Validate(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

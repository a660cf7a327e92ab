package schemacheck

import "github.com/osvaldoandrade/schemacheck/internal/infra/schema"

// Config defines how schemas are compiled and instances are read.
type Config struct {
	// Draft applies to schemas without $schema: "4", "6", "7", "2019-09"
	// or "2020-12". Empty selects 2020-12.
	Draft         string
	AssertFormat  bool
	AssertContent bool
	// Strict rejects JSON objects with duplicate member names.
	Strict bool
	// Jobs bounds parallel instance validation. Results keep input order.
	Jobs int
}

func DefaultConfig() Config {
	return Config{Jobs: 1}
}

func normalizeConfig(cfg Config) (Config, error) {
	if cfg.Jobs <= 0 {
		cfg.Jobs = 1
	}
	if _, err := schema.ParseDraft(cfg.Draft); err != nil {
		return cfg, err
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ProjectTrigger selects which milestone permits project creation. It is a
// deployment-level switch, not per-request state.
const (
	TriggerContractSigned  = "contract_signed"
	TriggerManagerApproved = "manager_approved"
)

// Config is the typed view over the process environment.
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// Pricing / portal defaults.
	DefaultVATRate float64       `env:"DEFAULT_VAT_RATE" envDefault:"0.15"`
	TokenTTL       time.Duration `env:"CLIENT_TOKEN_TTL" envDefault:"720h"`
	ProjectTrigger string        `env:"PROJECT_TRIGGER" envDefault:"contract_signed"`

	// DynamoDB table names.
	RequestsTable  string `env:"SERVICE_REQUESTS_TABLE" envDefault:"service_requests"`
	OffersTable    string `env:"OFFERS_TABLE" envDefault:"offers"`
	ContractsTable string `env:"CONTRACTS_TABLE" envDefault:"contracts"`
	ProjectsTable  string `env:"PROJECTS_TABLE" envDefault:"projects"`
	CodesTable     string `env:"PROJECT_CODES_TABLE" envDefault:"project_codes"`
	LedgerTable    string `env:"ACTIVITY_LEDGER_TABLE" envDefault:"activity_ledger"`
}

// Load parses the environment into a Config and validates the trigger mode.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	switch cfg.ProjectTrigger {
	case TriggerContractSigned, TriggerManagerApproved:
	default:
		return Config{}, fmt.Errorf("invalid PROJECT_TRIGGER %q", cfg.ProjectTrigger)
	}
	if cfg.DefaultVATRate < 0 {
		return Config{}, fmt.Errorf("invalid DEFAULT_VAT_RATE %v", cfg.DefaultVATRate)
	}
	return cfg, nil
}

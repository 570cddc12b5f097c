package trending

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Provisioning outcome statuses.
const (
	ProvisioningSuccess = "SUCCESS"
	ProvisioningFailed  = "FAILED"
)

// RequestTypeCreate is the only provisioning request type that writes.
const RequestTypeCreate = "Create"

// Default config values seeded for the "default" trend list.
const (
	seedTrendListLimit    = "10"
	seedAggregationWindow = "60" // minutes
)

// ProvisioningOutcome reports the result of one seeding run.
type ProvisioningOutcome struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

// Responder delivers a provisioning outcome to the external provisioning
// system. Respond is called exactly once per Seed call.
type Responder interface {
	Respond(ctx context.Context, outcome ProvisioningOutcome) error
}

// Seeder writes the default trend list config row as a one-shot
// provisioning step.
type Seeder struct {
	configs   ConfigWriter
	responder Responder
	logger    *zap.Logger
}

// NewSeeder creates the config seeder.
func NewSeeder(configs ConfigWriter, responder Responder, logger *zap.Logger) *Seeder {
	return &Seeder{configs: configs, responder: responder, logger: logger}
}

// Seed provisions the default config when requestType is "Create", always
// overwriting any existing row. Any other request type is an idempotent
// no-op reported as success. The outcome is delivered to the responder and
// also returned for the caller's exit handling.
func (s *Seeder) Seed(ctx context.Context, requestType string) ProvisioningOutcome {
	outcome := ProvisioningOutcome{
		Status:    ProvisioningSuccess,
		RequestID: uuid.NewString(),
	}

	switch requestType {
	case RequestTypeCreate:
		err := s.configs.Put(ctx, DefaultConfigID, map[string]string{
			"trendListLimit":    seedTrendListLimit,
			"aggregationWindow": seedAggregationWindow,
		})
		if err != nil {
			outcome.Status = ProvisioningFailed
			outcome.Message = fmt.Sprintf("seeding default trend list config: %v", err)
		} else {
			outcome.Message = "seeded default trend list config"
		}
	default:
		outcome.Message = fmt.Sprintf("provisioning request type %q requires no seeding", requestType)
	}

	if err := s.responder.Respond(ctx, outcome); err != nil {
		s.logger.Error("failed to deliver provisioning outcome",
			zap.String("request_id", outcome.RequestID),
			zap.String("status", outcome.Status),
			zap.Error(err),
		)
	}

	return outcome
}

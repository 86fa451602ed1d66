// Package transform maps validated incident submissions into the fixed
// NetanyaMuni payload format.
package transform

import (
	"strings"

	"github.com/netanyamuni/incident-backend/internal/incident/domain"
	"github.com/netanyamuni/incident-backend/pkg/errors"
	"github.com/netanyamuni/incident-backend/pkg/logger"
)

// Config holds the fixed municipality values injected into every payload.
// These never come from request input.
type Config struct {
	EventCallSourceID int
	CityCode          string
	CityDesc          string
	EventCallCenterID string
	StreetCode        string
	StreetDesc        string
	ContactUsType     string
}

// DefaultConfig returns the NetanyaMuni constants.
func DefaultConfig() Config {
	return Config{
		EventCallSourceID: 4,
		CityCode:          "7400",
		CityDesc:          "נתניה",
		EventCallCenterID: "3",
		StreetCode:        "898",
		StreetDesc:        "קרל פופר",
		ContactUsType:     "3",
	}
}

// Transformer converts incident submissions to the SharePoint payload
// format. Transform is deterministic and side-effect-free aside from
// logging.
type Transformer struct {
	config Config
	log    *logger.Logger
}

// NewTransformer creates a payload transformer with the given fixed
// municipality configuration.
func NewTransformer(cfg Config, log *logger.Logger) *Transformer {
	return &Transformer{
		config: cfg,
		log:    log.WithComponent("payload_transformer"),
	}
}

// Transform builds the municipality payload from a validated submission.
// Optional caller fields become empty strings, never nulls. The input is
// expected to be pre-validated upstream; only a nil submission is
// rejected here.
func (t *Transformer) Transform(sub *domain.IncidentSubmission) (*domain.MunicipalityPayload, error) {
	if sub == nil {
		return nil, errors.Transformation(nil, "submission cannot be nil")
	}

	payload := &domain.MunicipalityPayload{
		EventCallSourceID: t.config.EventCallSourceID,
		CityCode:          t.config.CityCode,
		CityDesc:          t.config.CityDesc,
		EventCallCenterID: t.config.EventCallCenterID,
		StreetCode:        t.config.StreetCode,
		StreetDesc:        t.config.StreetDesc,
		ContactUsType:     t.config.ContactUsType,

		EventCallDesc:   t.eventCallDescription(sub),
		HouseNumber:     sub.Street.HouseNumber,
		CallerFirstName: sub.UserData.FirstName,
		CallerLastName:  sub.UserData.LastName,
		CallerTZ:        sub.UserData.UserID,
		CallerPhone1:    sub.UserData.Phone,
		CallerEmail:     sub.UserData.Email,
	}

	t.log.Info().
		Str("category", sub.Category.Name).
		Str("house_number", sub.Street.HouseNumber).
		Bool("custom_text", strings.TrimSpace(sub.CustomText) != "").
		Msg("transformed incident submission")

	return payload, nil
}

// eventCallDescription applies the priority rule: trimmed custom text
// when present, otherwise the category's fixed description.
// Whitespace-only custom text counts as absent.
func (t *Transformer) eventCallDescription(sub *domain.IncidentSubmission) string {
	if trimmed := strings.TrimSpace(sub.CustomText); trimmed != "" {
		return trimmed
	}
	return sub.Category.EventCallDesc
}

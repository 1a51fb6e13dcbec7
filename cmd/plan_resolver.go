package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/scatterbrainlabs/scatterbrain/models"
)

// planIDEnvVar names the environment variable consulted when --plan is not
// given.
const planIDEnvVar = "SCATTERBRAIN_PLAN_ID"

// ErrNoActivePlan is returned when neither --plan nor the environment
// selects a plan.
var ErrNoActivePlan = errors.New("no active plan: pass --plan <id> or set " + planIDEnvVar)

// resolvePlanID determines the active plan: the --plan flag overrides,
// otherwise SCATTERBRAIN_PLAN_ID is consulted.
func resolvePlanID() (string, error) {
	raw := strings.TrimSpace(planFlag)
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv(planIDEnvVar))
	}
	if raw == "" {
		return "", ErrNoActivePlan
	}
	if _, err := models.ParsePlanID(raw); err != nil {
		return "", err
	}
	return raw, nil
}

package circuitbreaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CONTENT_BREAKER_FAILURE_THRESHOLD", "8")
	t.Setenv("CONTENT_BREAKER_RECOVERY_TIMEOUT", "2m")

	cfg := LoadConfigFromEnv(ContentServiceConfig(), "CONTENT")
	assert.Equal(t, Config{Name: "content-service", FailureThreshold: 8, RecoveryTimeout: 2 * time.Minute}, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv_OutOfRangeKeepsBase(t *testing.T) {
	t.Setenv("IMAGE_BREAKER_FAILURE_THRESHOLD", "0")
	t.Setenv("IMAGE_BREAKER_RECOVERY_TIMEOUT", "5h")

	assert.Equal(t, ImageServiceConfig(), LoadConfigFromEnv(ImageServiceConfig(), "IMAGE"))
}

func TestConfig_Validate(t *testing.T) {
	assert.ErrorContains(t, Config{FailureThreshold: 1, RecoveryTimeout: time.Second}.Validate(), "name is required")
	assert.ErrorContains(t, Config{Name: "x", RecoveryTimeout: time.Second}.Validate(), "failure threshold")
	assert.ErrorContains(t, Config{Name: "x", FailureThreshold: 1}.Validate(), "recovery timeout")
}

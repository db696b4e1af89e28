package otel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "collector:4317", normalizeEndpoint("http://collector:4317/"))
	assert.Equal(t, "collector:4317", normalizeEndpoint("https://collector:4317"))
	assert.Equal(t, "localhost:4317", normalizeEndpoint("localhost:4317"))
}

func TestServiceAttributes(t *testing.T) {
	attrs := ServiceAttributes(Config{ServiceName: "knudge", ServiceVersion: "0.1.0", Environment: "staging"})

	assert.Contains(t, attrs, semconv.ServiceName("knudge"))
	assert.Contains(t, attrs, semconv.ServiceNamespace("knudge"))
	assert.Contains(t, attrs, semconv.DeploymentEnvironment("staging"))
}

package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestCreateApp(t *testing.T) {
	t.Setenv("ADMIN_API_KEY", "test-admin-key")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "localhost:9092")

	// Validate fx dependency graph
	require.NoError(t, fx.ValidateApp(CreateApp()))
}

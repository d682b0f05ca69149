package noop

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gdocs/internal/logger"
)

func TestSendNotification_Logs(t *testing.T) {
	var buf bytes.Buffer
	s := NewNoopSender(logger.New(logger.Options{Level: "info", Output: &buf}))

	err := s.SendNotification(context.Background(), "bob@example.com", "bob", "Login", "bob signed in")

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"to":"bob@example.com"`)
	assert.Contains(t, buf.String(), "bob signed in")
}

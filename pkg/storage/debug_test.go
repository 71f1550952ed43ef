package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugInfo(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	info, err := node.DebugInfo(ctx)
	require.NoError(t, err)

	peerID, err := node.PeerID(ctx)
	require.NoError(t, err)

	assert.Equal(t, peerID, info.ID)
	assert.NotEmpty(t, info.SPR)
	assert.Equal(t, peerID, info.Table.LocalNode.PeerID)
}

func TestSetLogLevel(t *testing.T) {
	ctx := context.Background()
	node, _ := newStartedNode(t)

	require.NoError(t, node.SetLogLevel(ctx, LogLevelTrace))

	err := node.SetLogLevel(ctx, LogLevel("loud"))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSetLogLevelBeforeStart(t *testing.T) {
	node, _ := newTestNode(t)

	// Log level changes do not require a running node.
	assert.NoError(t, node.SetLogLevel(context.Background(), LogLevelDebug))
}

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockCIDShape(t *testing.T) {
	cid := mockCID([]byte("payload"))

	assert.Equal(t, byte('z'), cid[0])
	assert.NotContains(t, cid, "=")
	_, err := ParseCID(cid)
	assert.NoError(t, err)

	// Same input, same identifier.
	assert.Equal(t, cid, mockCID([]byte("payload")))
	assert.NotEqual(t, cid, mockCID([]byte("other payload")))
}

func TestMockEngineUnknownRef(t *testing.T) {
	eng := NewMockEngine()

	assert.Equal(t, StatusError, eng.Start(NodeRef(99), nil))
	assert.Equal(t, StatusError, eng.Destroy(NodeRef(99)))
}

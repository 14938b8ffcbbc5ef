package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent(PropertyCreated, "64b000000000000000000001", map[string]string{"name": "Casa"})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, PropertyCreated, e.Type)
	assert.False(t, e.OccurredAt.IsZero())

	body, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"aggregateId":"64b000000000000000000001"`)
	assert.Contains(t, string(body), `"type":"property.created"`)
}

func TestEventIDsAreUnique(t *testing.T) {
	a := NewEvent(ImageUploaded, "x", nil)
	b := NewEvent(ImageUploaded, "x", nil)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNopPublisher(t *testing.T) {
	p := NewNopPublisher()
	assert.NoError(t, p.Publish(context.Background(), NewEvent(PropertyDeleted, "x", nil)))
	assert.NoError(t, p.Close())
}

func TestClosedPublisherRejects(t *testing.T) {
	p := &AMQPPublisher{exchange: "catalog.events"}
	assert.Error(t, p.Publish(context.Background(), NewEvent(PropertyUpdated, "x", nil)))
	assert.NoError(t, p.Close())
}

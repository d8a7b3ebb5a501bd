package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_IsFor(t *testing.T) {
	broadcast, err := New(TypeServiceApproved, map[string]int{"serviceId": 3})
	require.NoError(t, err)
	assert.True(t, broadcast.IsBroadcast())
	assert.True(t, broadcast.IsFor(99))
	assert.JSONEq(t, `{"serviceId":3}`, string(broadcast.Payload))

	direct, err := New(TypeNewMessage, nil, 1, 2)
	require.NoError(t, err)
	assert.False(t, direct.IsBroadcast())
	assert.True(t, direct.IsFor(2))
	assert.False(t, direct.IsFor(3))
	assert.Nil(t, direct.Payload)
}

func TestLocalBroker_PublishSubscribe(t *testing.T) {
	b := NewLocalBroker()

	var got []string
	unsubscribe, err := b.Subscribe(func(ctx context.Context, e Event) {
		got = append(got, e.Type)
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(context.Background(), Event{Type: TypeNewMessage}))
	unsubscribe()
	require.NoError(t, b.Publish(context.Background(), Event{Type: TypeConnectionRequest}))

	assert.Equal(t, []string{TypeNewMessage}, got)
	require.NoError(t, b.Close())
}

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	natstest "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runNATSServer(t *testing.T) *server.Server {
	t.Helper()
	opts := natstest.DefaultTestOptions
	opts.Port = -1
	s := natstest.RunServer(&opts)
	t.Cleanup(s.Shutdown)
	return s
}

func subscribe(t *testing.T, url, subject string) *nats.Subscription {
	t.Helper()
	nc, err := nats.Connect(url)
	require.NoError(t, err)
	t.Cleanup(nc.Close)
	sub, err := nc.SubscribeSync(subject)
	require.NoError(t, err)
	require.NoError(t, nc.Flush())
	return sub
}

func TestNATSPublisherPublishesCompileEvent(t *testing.T) {
	s := runNATSServer(t)
	sub := subscribe(t, s.ClientURL(), DefaultSubject)

	p, err := NewNATSPublisher(NATSConfig{URL: s.ClientURL()})
	require.NoError(t, err)

	evt := NewCompileEvent("proj-1", "ok", 5, 250*time.Millisecond, true)
	require.NoError(t, p.Publish(context.Background(), evt))
	require.NoError(t, p.nc.Flush())

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)

	var got CompileEvent
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, evt.EventID, got.EventID)
	assert.Equal(t, TypeCompileCompleted, got.Type)
	assert.Equal(t, "proj-1", got.ProjectID)
	assert.Equal(t, "ok", got.Tag)
	assert.Equal(t, int64(250), got.DurationMS)
	assert.Equal(t, 5, got.FragmentBytes)
	assert.True(t, got.Truncated)
	assert.True(t, evt.Timestamp.Equal(got.Timestamp))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(msg.Data, &raw))
	for _, key := range []string{"elmCode", "code", "data", "source", "output"} {
		assert.NotContains(t, raw, key)
	}

	p.Close()
	assert.Eventually(t, p.nc.IsClosed, 2*time.Second, 10*time.Millisecond)
}

func TestNATSPublisherCustomSubject(t *testing.T) {
	s := runNATSServer(t)
	sub := subscribe(t, s.ClientURL(), "notebook.events")

	p, err := NewNATSPublisher(NATSConfig{URL: s.ClientURL(), Subject: "notebook.events"})
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Publish(context.Background(), NewCompileEvent("proj-2", "err", 1, time.Second, false)))
	require.NoError(t, p.nc.Flush())

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "notebook.events", msg.Subject)
}

func TestNATSPublisherCanceledContext(t *testing.T) {
	s := runNATSServer(t)
	p, err := NewNATSPublisher(NATSConfig{URL: s.ClientURL()})
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, NewCompileEvent("proj-3", "ok", 1, time.Second, false)), context.Canceled)
}

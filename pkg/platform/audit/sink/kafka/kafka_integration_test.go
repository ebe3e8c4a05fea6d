//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	id "precinct/pkg/domain"
	audit "precinct/pkg/platform/audit"
	"precinct/pkg/testutil/containers"
)

func TestSinkPublish(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	const topic = "precinct.audit"

	ctx := context.Background()
	rp := containers.NewRedpandaContainer(t, topic)

	sink, err := New([]string{rp.Broker}, topic)
	require.NoError(t, err)
	t.Cleanup(sink.Close)

	officerID := id.OfficerID(uuid.New())
	event := audit.Event{
		Category:  audit.CategorySecurity,
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		OfficerID: officerID,
		Action:    string(audit.EventSessionRevoked),
		Subject:   "session",
		RequestID: "req-1",
		ClientIP:  "1.2.3.4",
	}
	require.NoError(t, sink.Publish(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	pollCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(pollCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, officerID.String(), string(records[0].Key))

	var got struct {
		Category  string `json:"category"`
		OfficerID string `json:"officer_id"`
		Action    string `json:"action"`
		ClientIP  string `json:"client_ip"`
	}
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, "security", got.Category)
	require.Equal(t, officerID.String(), got.OfficerID)
	require.Equal(t, "session_revoked", got.Action)
	require.Equal(t, "1.2.3.4", got.ClientIP)
}

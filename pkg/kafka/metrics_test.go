package kafka

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObservePublish_CountsByOutcome(t *testing.T) {
	topic := Topic("test", "observe")

	observePublish(topic, "wish.voted", 0.01, nil)
	observePublish(topic, "wish.voted", 0.02, nil)
	observePublish(topic, "wish.voted", 0.5, errors.New("broker down"))

	assert.Equal(t, float64(2), testutil.ToFloat64(eventsPublished.WithLabelValues(topic, "wish.voted", outcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(eventsPublished.WithLabelValues(topic, "wish.voted", outcomeError)))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(publishDuration, "wishkit_events_publish_duration_seconds"), 1)
}

package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	topics  []string
	batches [][]AggregatedLogEntry
}

func (p *recordingPublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	return nil
}

func (p *recordingPublisher) snapshot() ([]string, [][]AggregatedLogEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...), append([][]AggregatedLogEntry(nil), p.batches...)
}

func TestLogCollectorAggregatesDuplicates(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 100,
		Topic:          "logs",
		Publisher:      pub,
	})

	fields := map[string]interface{}{"provider": "market"}
	for i := 0; i < 3; i++ {
		c.AddLog("error", "upstream failed", fields, "usecase/market.go:10")
	}
	c.AddLog("error", "other failure", nil, "usecase/chat.go:5")
	c.Close()

	topics, batches := pub.snapshot()
	require.Len(t, batches, 1)
	assert.Equal(t, []string{"logs"}, topics)
	require.Len(t, batches[0], 2)
	assert.Equal(t, "upstream failed", batches[0][0].Message)
	assert.Equal(t, 3, batches[0][0].Count)
	assert.Equal(t, 1, batches[0][1].Count)
}

func TestLogCollectorFlushesAtThreshold(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 2,
		Topic:          "logs",
		Publisher:      pub,
	})

	c.AddLog("error", "a", nil, "x")
	c.AddLog("error", "b", nil, "x")
	c.Close()

	_, batches := pub.snapshot()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 2)
}

func TestLoggerErrorFeedsCollector(t *testing.T) {
	pub := &recordingPublisher{}
	l := Nop()
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, Topic: "logs", Publisher: pub})

	l.Error("signal publish failed", String("instrument", "BTC-USD"), Error(errors.New("broker down")))
	l.Warn("not collected")
	l.RemoveCollector()

	_, batches := pub.snapshot()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 1)
	entry := batches[0][0]
	assert.Equal(t, "signal publish failed", entry.Message)
	assert.Equal(t, "BTC-USD", entry.Fields["instrument"])
	assert.Equal(t, "broker down", entry.Fields["error"])
}

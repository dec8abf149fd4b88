package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}

func TestNewProducerOptions(t *testing.T) {
	p, err := NewProducer(
		WithBrokers([]string{"localhost:9092"}),
		WithCompression("zstd"),
		WithHashByKey(true),
		WithMaxAttempts(5),
		WithAutoCreateTopic(true),
	)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, kafka.Zstd, p.writer.Compression)
	assert.Equal(t, 5, p.writer.MaxAttempts)
	assert.True(t, p.writer.AllowAutoTopicCreation)
	_, ok := p.writer.Balancer.(*kafka.Hash)
	assert.True(t, ok)
}

func TestEncodeValue(t *testing.T) {
	b, err := encodeValue([]byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, "raw", string(b))

	b, err = encodeValue("text")
	require.NoError(t, err)
	assert.Equal(t, "text", string(b))

	b, err = encodeValue(map[string]int{"n": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(b))

	_, err = encodeValue(make(chan int))
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Gzip, ParseCompression("gzip"))
	assert.Equal(t, kafka.Snappy, ParseCompression("snappy"))
	assert.Equal(t, kafka.Lz4, ParseCompression("lz4"))
	assert.Equal(t, kafka.Compression(0), ParseCompression("none"))
	assert.Equal(t, kafka.Gzip, ParseCompression("bogus"))
}

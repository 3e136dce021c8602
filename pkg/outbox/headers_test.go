package outbox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/prodpulse/product-metrics/pkg/correlationid"
	"github.com/prodpulse/product-metrics/pkg/outbox"
)

func TestHeadersRoundTrip(t *testing.T) {
	t.Run("Should carry the correlation ID through headers", func(t *testing.T) {
		ctx := correlationid.NewContext(context.Background(), "corr-123")

		headers := outbox.BuildHeaders(ctx)
		require.Equal(t, "corr-123", headers[correlationid.Header])

		restored := outbox.ExtractContextFromHeaders(context.Background(), headers)

		id, ok := correlationid.FromContext(restored)
		assert.True(t, ok)
		assert.Equal(t, "corr-123", id)
	})

	t.Run("Should build empty headers without a correlation ID", func(t *testing.T) {
		headers := outbox.BuildHeaders(context.Background())
		_, ok := headers[correlationid.Header]
		assert.False(t, ok)
	})
}

func TestInjectCorrelationIDFromRecord(t *testing.T) {
	t.Run("Should read the correlation ID from record headers", func(t *testing.T) {
		rec := &kgo.Record{Headers: []kgo.RecordHeader{
			{Key: correlationid.Header, Value: []byte("corr-456")},
		}}

		ctx := outbox.InjectCorrelationIDFromRecord(context.Background(), rec)

		id, ok := correlationid.FromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "corr-456", id)
	})

	t.Run("Should leave the context untouched without the header", func(t *testing.T) {
		ctx := outbox.InjectCorrelationIDFromRecord(context.Background(), &kgo.Record{})

		_, ok := correlationid.FromContext(ctx)
		assert.False(t, ok)
	})
}

package pricing

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFake(t *testing.T) {
	f, err := NewFake()
	require.NoError(t, err)
	ctx := context.Background()

	cat, err := f.FetchCatalog(ctx)
	require.NoError(t, err)
	_, err = cat.Lookup("business")
	require.NoError(t, err)

	q, err := f.Quote(ctx, testRequest())
	require.NoError(t, err)
	assert.True(t, q.TotalPrice.Equal(decimal.NewFromInt(30990)))
	assert.True(t, q.QuotasSum.Equal(decimal.NewFromInt(6000)))

	conf, err := f.Submit(ctx, testRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, conf.SubscriptionID)
	assert.Equal(t, []SubscriptionRequest{testRequest()}, f.Submitted())
}

func TestFake_Reject(t *testing.T) {
	f, err := NewFake()
	require.NoError(t, err)
	f.Reject("err message")

	_, err = f.Submit(context.Background(), testRequest())
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "err message", rejected.Message)
	assert.Empty(t, f.Submitted())

	f.Reject("")
	_, err = f.Quote(context.Background(), testRequest())
	require.NoError(t, err)
}

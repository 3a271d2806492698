package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/momoscout/momo-brand-scraper/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	added []*redis.XAddArgs
	err   error
}

func (f *fakeStream) XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd {
	f.added = append(f.added, args)
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	return redis.NewStringResult("1-1", nil)
}

func TestPublishProductDiscovered(t *testing.T) {
	stream := &fakeStream{}
	pub := NewPublisher(stream, "stream:product_discovery")

	rec := models.ProductRecord{
		Brand:       "輝葉",
		Name:        "HY-111 按摩椅",
		ModelNumber: "HY-111",
		Price:       "39800",
		SalesCount:  "120",
		ProductURL:  "https://www.momoshop.com.tw/goods/GoodsDetail.jsp?i_code=111",
	}

	err := pub.PublishProductDiscovered(context.Background(), "run-1", "111", rec)
	require.NoError(t, err)

	require.Len(t, stream.added, 1)
	args := stream.added[0]
	assert.Equal(t, "stream:product_discovery", args.Stream)

	values := args.Values.(map[string]interface{})
	assert.Equal(t, string(EventTypeProductDiscovered), values["event_type"])
	assert.Equal(t, "111", values["aggregate_id"])

	var payload ProductDiscoveredPayload
	require.NoError(t, json.Unmarshal([]byte(values["data"].(string)), &payload))
	assert.Equal(t, "run-1", payload.RunID)
	assert.Equal(t, "111", payload.Identifier)
	assert.Equal(t, "HY-111 按摩椅", payload.Name)
	assert.Equal(t, "scraper", payload.Source)
	assert.NotEmpty(t, payload.EventID)
}

func TestPublishProductDiscoveredRedisError(t *testing.T) {
	stream := &fakeStream{err: errors.New("connection refused")}
	pub := NewPublisher(stream, "stream:product_discovery")

	err := pub.PublishProductDiscovered(context.Background(), "run-1", "111", models.ProductRecord{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish to redis")
}

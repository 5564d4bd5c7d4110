package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lending/pkg/number"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/tickers/eth":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"provider":"test","symbol":"ETH","price":"2000.5","timestamp":1600000000}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":404,"msg":"not found"}`))
		}
	}))
	defer srv.Close()

	feed := NewHTTPFeed(srv.URL, time.Second)
	ctx := context.Background()

	data, err := feed.LatestPrice(ctx, "eth")
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1600000000, 0), data.UpdatedAt)

	price, err := Normalize(data.Answer, data.Decimals)
	require.NoError(t, err)
	assert.Equal(t, number.MustRate("2000.5"), price)

	_, err = feed.LatestPrice(ctx, "doge")
	assert.Error(t, err)
}

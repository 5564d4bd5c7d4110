package oracle

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"lending/core"
	"lending/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/go-resty/resty/v2"
)

// tickerDecimals precision kept from the decimal ticker price
const tickerDecimals = 18

// HTTPFeed pulls tickers from a price oracle api
type HTTPFeed struct {
	endpoint string
	client   *resty.Client
}

// NewHTTPFeed new http feed
func NewHTTPFeed(endpoint string, timeout time.Duration) *HTTPFeed {
	return &HTTPFeed{
		endpoint: endpoint,
		client:   resthttp.NewClient(timeout),
	}
}

// LatestPrice implements core.IPriceFeed
func (f *HTTPFeed) LatestPrice(ctx context.Context, feed string) (*core.PriceData, error) {
	uri := fmt.Sprintf("%s/api/v2/tickers/%s", f.endpoint, url.PathEscape(feed))
	logger.FromContext(ctx).Debugln("pull price:", uri)

	resp, err := f.client.R().SetContext(ctx).Get(uri)
	if err != nil {
		return nil, err
	}

	var ticker core.PriceTicker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		return nil, err
	}

	updatedAt := time.Now()
	if ticker.Timestamp > 0 {
		updatedAt = time.Unix(ticker.Timestamp, 0)
	}

	return &core.PriceData{
		Answer:    ticker.Price.Shift(tickerDecimals).Truncate(0).BigInt(),
		Decimals:  tickerDecimals,
		UpdatedAt: updatedAt,
	}, nil
}

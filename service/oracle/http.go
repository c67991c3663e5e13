package oracle

import (
	"context"
	"errors"
	"time"

	"creditmarket/core"
	"creditmarket/pkg/id"
	"creditmarket/pkg/resthttp"

	"github.com/bluele/gcache"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// DefaultTTL a fetched price is reused for this long
const DefaultTTL = 10 * time.Second

type priceResponse struct {
	Price decimal.Decimal `json:"price"`
}

// HTTP oracle reading a 1e36 scaled price from a json endpoint
type HTTP struct {
	endPoint string
	cache    gcache.Cache
}

// NewHTTP new http oracle, prices are cached for ttl
func NewHTTP(endPoint string, ttl time.Duration) *HTTP {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &HTTP{
		endPoint: endPoint,
		cache:    gcache.New(1).LRU().Expiration(ttl).Build(),
	}
}

// Price latest price, the endpoint answers {"price": "..."}
func (h *HTTP) Price(ctx context.Context) (decimal.Decimal, error) {
	if v, err := h.cache.Get(h.endPoint); err == nil {
		return v.(decimal.Decimal), nil
	}

	var resp priceResponse
	req := resthttp.WithRequestID(ctx, id.GenTraceID())
	if err := resthttp.Get(req, h.endPoint, &resp); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("pull price", h.endPoint)
		return decimal.Zero, err
	}

	if resp.Price.IsNegative() {
		return decimal.Zero, core.ErrInvalidPrice
	}

	_ = h.cache.Set(h.endPoint, resp.Price)
	return resp.Price, nil
}

// ErrUnknownKind oracle kind not static or http
var ErrUnknownKind = errors.New("unknown oracle kind")

package resthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/go-resty/resty/v2"
)

const (
	// HeaderKeyRequestID request id header key
	headerKeyRequestID = "X-Request-Id"
)

var runOnce sync.Once
var restyClient *resty.Client

// Client resty client
func Client() *resty.Client {
	runOnce.Do(func() {
		restyClient = resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Charset", "utf-8").
			SetTimeout(10 * time.Second)
	})

	return restyClient
}

// Request new resty request
func Request(ctx context.Context) *resty.Request {
	return Client().R().SetContext(ctx)
}

// WithRequestID resty request with request id
func WithRequestID(ctx context.Context, requestID string) *resty.Request {
	return Request(ctx).SetHeader(headerKeyRequestID, requestID)
}

// Get fetch url and decode the json body into resp
func Get(request *resty.Request, url string, resp interface{}) error {
	r, err := request.Execute(strings.ToUpper(resty.MethodGet), url)
	if err != nil {
		return err
	}

	logger.FromContext(request.Context()).Debugf("GET %s %s", url, r.Status())
	return ParseResponse(r, resp)
}

// ParseResponse decode a successful body into obj, any other status is an error
func ParseResponse(r *resty.Response, obj interface{}) error {
	if !r.IsSuccess() {
		return fmt.Errorf("%s: %s", r.Status(), strings.TrimSpace(string(r.Body())))
	}

	if obj == nil {
		return nil
	}

	return json.Unmarshal(r.Body(), obj)
}

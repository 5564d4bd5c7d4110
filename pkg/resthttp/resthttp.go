package resthttp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// NewClient json resty client with the given timeout
func NewClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Charset", "utf-8").
		SetTimeout(timeout)
}

// ParseResponse decodes a json body into obj, non 2xx responses become errors
func ParseResponse(r *resty.Response, obj interface{}) error {
	if !r.IsSuccess() {
		var e struct {
			Code int    `json:"code"`
			Msg  string `json:"msg"`
		}
		if err := json.Unmarshal(r.Body(), &e); err == nil && e.Msg != "" {
			return fmt.Errorf("%s: %d %s", r.Status(), e.Code, e.Msg)
		}

		return fmt.Errorf("%s: %s", r.Status(), string(r.Body()))
	}

	if obj != nil {
		return json.Unmarshal(r.Body(), obj)
	}

	return nil
}

package endpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/s0up4200/restbind/request"
	"github.com/s0up4200/restbind/schema"
)

// fakeConn implements Connection for testing
type fakeConn struct {
	mu       sync.Mutex
	sent     []request.Spec
	status   int
	body     []byte
	sendErr  error
	asJSON   bool
	codec    schema.Codec
	trailing bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{status: 200, body: []byte(`{}`), asJSON: true, codec: schema.NewJSON()}
}

func (c *fakeConn) OverlayDefaults(spec request.Spec) request.Spec {
	return spec.Overlay(
		request.WithScheme(request.SchemeHTTPS),
		request.WithHost("www.example.com"),
		request.WithPath(request.NewPath("").Join(spec.Path())),
		request.WithTrailingSlash(c.trailing),
	)
}

func (c *fakeConn) Send(ctx context.Context, spec request.Spec) (*request.Response, error) {
	c.mu.Lock()
	c.sent = append(c.sent, spec)
	c.mu.Unlock()
	if c.sendErr != nil {
		return nil, c.sendErr
	}
	return &request.Response{StatusCode: c.status, Body: c.body}, nil
}

func (c *fakeConn) ProcessResponse(ctx context.Context, resp *request.Response, spec request.Spec) (any, error) {
	if !resp.OK() {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	if !c.asJSON {
		return resp, nil
	}
	var out any
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fakeConn) Codec() schema.Codec {
	return c.codec
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func (c *fakeConn) last() request.Spec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[len(c.sent)-1]
}

type someObject struct {
	N int    `json:"n" validate:"gte=0"`
	S string `json:"s" validate:"required"`
}

type someObjectList struct {
	Objects []someObject `json:"objects"`
}

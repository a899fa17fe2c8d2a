package httpx

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultTimeout             = 30 * time.Second
	DefaultMaxConnsPerHost     = 128
	DefaultMaxIdleConnDuration = 10 * time.Second
	DefaultMaxResponseBodySize = 32 * 1024 * 1024 // 32MB, above the image fetch cap
)

// FastHTTPClientConfig configures the fasthttp-backed client.
type FastHTTPClientConfig struct {
	Timeout             time.Duration
	MaxConnsPerHost     int
	MaxResponseBodySize int
	UserAgent           string
}

type FastHTTPClient struct {
	client    *fasthttp.Client
	userAgent string
}

// NewFastHTTPClient creates a fasthttp-backed Client. Zero config fields fall
// back to defaults.
func NewFastHTTPClient(cfg FastHTTPClientConfig) Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxConnsPerHost <= 0 {
		cfg.MaxConnsPerHost = DefaultMaxConnsPerHost
	}
	if cfg.MaxResponseBodySize <= 0 {
		cfg.MaxResponseBodySize = DefaultMaxResponseBodySize
	}

	client := &fasthttp.Client{
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		MaxIdleConnDuration: DefaultMaxIdleConnDuration,
		MaxResponseBodySize: cfg.MaxResponseBodySize,
		ReadTimeout:         cfg.Timeout,
		WriteTimeout:        cfg.Timeout,
	}

	return &FastHTTPClient{
		client:    client,
		userAgent: cfg.UserAgent,
	}
}

func (c *FastHTTPClient) Do(req *http.Request) (*http.Response, error) {
	fastReq := fasthttp.AcquireRequest()
	fastResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(fastReq)

	if req.URL != nil {
		fastReq.SetRequestURI(req.URL.String())
	}
	fastReq.Header.SetMethod(req.Method)

	if req.Host != "" {
		fastReq.Header.SetHost(req.Host)
	} else if req.URL != nil && req.URL.Host != "" {
		fastReq.Header.SetHost(req.URL.Host)
	}

	for key, values := range req.Header {
		for _, value := range values {
			fastReq.Header.Add(key, value)
		}
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		fastReq.Header.Set("User-Agent", c.userAgent)
	}

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			fasthttp.ReleaseResponse(fastResp)
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		fastReq.SetBodyRaw(body)
		_ = req.Body.Close()
	}

	// Honor the request context deadline; fasthttp has no context support.
	var err error
	if deadline, ok := req.Context().Deadline(); ok {
		err = c.client.DoDeadline(fastReq, fastResp, deadline)
	} else {
		err = c.client.Do(fastReq, fastResp)
	}
	if err != nil {
		fasthttp.ReleaseResponse(fastResp)
		return nil, err
	}

	// fastResp.Body() references an internal buffer that is reused after
	// release, so the body must be copied out first.
	respBody := fastResp.Body()
	bodyCopy := make([]byte, len(respBody))
	copy(bodyCopy, respBody)

	statusCode := fastResp.StatusCode()
	headers := make(http.Header)
	fastResp.Header.VisitAll(func(key, value []byte) {
		headers.Add(string(key), string(value))
	})

	resp := &http.Response{
		Status:        fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
		StatusCode:    statusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        headers,
		Body:          io.NopCloser(bytes.NewReader(bodyCopy)),
		ContentLength: int64(len(bodyCopy)),
		Request:       req,
	}

	fasthttp.ReleaseResponse(fastResp)
	return resp, nil
}

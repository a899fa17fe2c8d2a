package httpx

import "net/http"

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=http_client_mock.go --case=underscore --with-expecter

// Client is the outbound HTTP surface used by channel adapters and the image
// fetcher. It speaks net/http types so callers stay transport-agnostic; the
// production implementation is fasthttp-backed.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

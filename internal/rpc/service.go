package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/api"
)

// Service collects the unary procedures of one Connect service.
type Service struct {
	name string
	mux  *http.ServeMux
	opts []connect.HandlerOption
}

// NewService starts a service. opts apply to every procedure registered on it.
func NewService(name string, opts ...connect.HandlerOption) *Service {
	return &Service{
		name: name,
		mux:  http.NewServeMux(),
		opts: append([]connect.HandlerOption{WithJSON()}, opts...),
	}
}

// Unary registers fn as service/method.
func Unary[Req, Res any](s *Service, method string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error)) {
	procedure := api.Procedure(s.name, method)
	s.mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, s.opts...))
}

// Handler returns the mount path and handler, in the shape of generated
// Connect code so it can be passed straight to mux.Handle.
func (s *Service) Handler() (string, http.Handler) {
	return "/" + s.name + "/", s.mux
}

// Name is the fully qualified service name.
func (s *Service) Name() string {
	return s.name
}

// Client calls the procedures of one service.
type Client struct {
	httpClient connect.HTTPClient
	baseURL    string
	service    string
	opts       []connect.ClientOption
}

// NewClient creates a Client for service at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL, service string, opts ...connect.ClientOption) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		service:    service,
		opts:       append([]connect.ClientOption{WithJSON()}, opts...),
	}
}

// Call invokes method on c's service with req. header, if non-nil, is added
// to the request.
func Call[Req, Res any](ctx context.Context, c *Client, method string, req *Req, header http.Header) (*Res, error) {
	client := connect.NewClient[Req, Res](c.httpClient, c.baseURL+api.Procedure(c.service, method), c.opts...)
	creq := connect.NewRequest(req)
	for k, vs := range header {
		for _, v := range vs {
			creq.Header().Add(k, v)
		}
	}
	res, err := client.CallUnary(ctx, creq)
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

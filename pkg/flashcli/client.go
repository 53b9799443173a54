// Package flashcli is the client side of the habitflash daemon's JSON-RPC
// control plane.
package flashcli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/habitflash/habitflash/common"
	"github.com/habitflash/habitflash/pkg/credman/keyring"
	"github.com/spf13/afero"
)

// bearerClient adds the daemon token to every request.
type bearerClient struct {
	token string
	next  *http.Client
}

func (b bearerClient) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.next.Do(req)
}

type Client struct {
	base  string
	token string
	rpc   *jrpc2.Client
}

// NewClient connects to the daemon at base, e.g. "http://127.0.0.1:7391".
func NewClient(base, token string) *Client {
	base = strings.TrimRight(base, "/")
	ch := jhttp.NewChannel(base+common.RouteRPC, &jhttp.ChannelOptions{
		Client: bearerClient{token: token, next: http.DefaultClient},
	})
	return &Client{
		base:  base,
		token: token,
		rpc:   jrpc2.NewClient(ch, nil),
	}
}

// BaseURL returns the daemon's HTTP address.
func (c *Client) BaseURL() string {
	return c.base
}

func (c *Client) Close() error {
	return c.rpc.Close()
}

func invoke[T any](ctx context.Context, c *Client, method string, params any) (*T, error) {
	var out T
	if err := c.rpc.CallResult(ctx, method, params, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return &out, nil
}

// ResolveToken returns the token from HABITFLASH_TOKEN, the OS keyring or
// the token file in dataDir, in that order.
func ResolveToken(dataDir string) (string, error) {
	if t := os.Getenv(common.TokenEnv); t != "" {
		return t, nil
	}
	return keyring.Lookup(keyring.NewKeyring(), keyring.NewFileTokenStore(afero.NewOsFs(), dataDir))
}

package flashcli

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
	"github.com/habitflash/habitflash/common"
)

// Push is a server notification.
type Push struct {
	Method string
	Params json.RawMessage
}

// wsChannel carries one JSON-RPC frame per WebSocket message.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

func (c *wsChannel) Send(data []byte) error {
	return c.conn.Write(c.ctx, cws.MessageText, data)
}

func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// Subscribe opens a WebSocket to the daemon and calls fn for every push
// until ctx is done or the connection drops. Pushes are delivered in order
// on a single goroutine.
func (c *Client) Subscribe(ctx context.Context, fn func(Push)) error {
	url := "ws" + strings.TrimPrefix(c.base, "http") + common.RouteRPCWS
	conn, _, err := cws.Dial(ctx, url, &cws.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + c.token}},
	})
	if err != nil {
		return err
	}
	conn.SetReadLimit(1 << 20)

	stopped := make(chan error, 1)
	cli := jrpc2.NewClient(&wsChannel{conn: conn, ctx: ctx}, &jrpc2.ClientOptions{
		OnNotify: func(req *jrpc2.Request) {
			var params json.RawMessage
			if req.HasParams() {
				_ = req.UnmarshalParams(&params)
			}
			fn(Push{Method: req.Method(), Params: params})
		},
		OnStop: func(_ *jrpc2.Client, err error) {
			stopped <- err
		},
	})

	select {
	case <-ctx.Done():
		cli.Close()
		return nil
	case err := <-stopped:
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
}

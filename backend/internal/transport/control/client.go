package control

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client клиент плоскости управления симуляцией
type Client struct {
	conn  *grpc.ClientConn
	owned bool
}

// Dial создает клиент для сервера управления по адресу
func Dial(address string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial control %s: %w", address, err)
	}
	return &Client{conn: conn, owned: true}, nil
}

// NewClient оборачивает уже открытое соединение; Close его не закрывает
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Close закрывает соединение, если оно было открыто через Dial
func (c *Client) Close() error {
	if c.owned && c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) GetStats(ctx context.Context) (*GetStatsResponse, error) {
	out := new(GetStatsResponse)
	if err := c.invoke(ctx, methodGetStats, &GetStatsRequest{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetPaused(ctx context.Context, paused bool) (*SetPausedResponse, error) {
	out := new(SetPausedResponse)
	if err := c.invoke(ctx, methodSetPaused, &SetPausedRequest{Paused: paused}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SpawnFood(ctx context.Context, x, y float32) (*SpawnFoodResponse, error) {
	out := new(SpawnFoodResponse)
	if err := c.invoke(ctx, methodSpawnFood, &SpawnFoodRequest{X: x, Y: y}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out interface{}) error {
	return c.conn.Invoke(ctx, method, in, out, grpc.CallContentSubtype(CodecName))
}

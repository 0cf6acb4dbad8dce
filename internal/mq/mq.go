// Package mq publishes application events through a broker-agnostic
// backend. The server only ever publishes; a separate analytics consumer
// owns the subscription side.
package mq

import "context"

// Backend defines the broker-agnostic publish operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

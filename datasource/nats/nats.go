package nats

import (
	"fmt"
	"sync"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StreamClient is one connection to the stream broker of a feature
// store, shared by every producer bound to that store.
type StreamClient struct {
	conn          *natsgo.Conn
	js            jetstream.JetStream
	Name          string
	SubjectPrefix string
}

type Config struct {
	URL           string
	User          string
	Password      string
	Token         string
	SubjectPrefix string
	ClientName    string
}

var streamInstances sync.Map

func RegisterStreamClient(name string, config Config) error {
	if _, ok := streamInstances.Load(name); ok {
		return nil
	}

	opts := []natsgo.Option{
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.Timeout(5 * time.Second),
		natsgo.DrainTimeout(30 * time.Second),
	}
	if config.ClientName != "" {
		opts = append(opts, natsgo.Name(config.ClientName))
	}
	if config.User != "" {
		opts = append(opts, natsgo.UserInfo(config.User, config.Password))
	} else if config.Token != "" {
		opts = append(opts, natsgo.Token(config.Token))
	}

	conn, err := natsgo.Connect(config.URL, opts...)
	if err != nil {
		return fmt.Errorf("connect to stream broker %s: %w", name, err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("create jetstream context for %s: %w", name, err)
	}

	client := &StreamClient{
		conn:          conn,
		js:            js,
		Name:          name,
		SubjectPrefix: config.SubjectPrefix,
	}
	streamInstances.Store(name, client)
	return nil
}

func GetStreamClient(name string) (*StreamClient, error) {
	value, ok := streamInstances.Load(name)
	if !ok {
		return nil, fmt.Errorf("StreamClient not found, name:%s", name)
	}

	client, ok := value.(*StreamClient)
	if !ok {
		return nil, fmt.Errorf("StreamClient not found, name:%s", name)
	}

	return client, nil
}

func (c *StreamClient) JetStream() jetstream.JetStream {
	return c.js
}

func (c *StreamClient) Conn() *natsgo.Conn {
	return c.conn
}

// RemoveStreamClient drains the connection and drops the registration.
func RemoveStreamClient(name string) {
	value, ok := streamInstances.Load(name)
	if !ok {
		return
	}
	client, ok := value.(*StreamClient)
	if !ok {
		return
	}

	if client.conn != nil && !client.conn.IsClosed() {
		if err := client.conn.Drain(); err != nil {
			client.conn.Close()
		}
	}

	streamInstances.Delete(name)
}

package network

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Client sends msgpack requests to a server over one TCP connection
type Client struct {
	conn net.Conn
	enc  *msgpack.Encoder
	dec  *msgpack.Decoder
}

// Dial connects to the server at addr
func Dial(addr string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	dec := msgpack.NewDecoder(conn)
	dec.UseLooseInterfaceDecoding(true)
	return &Client{conn: conn, enc: msgpack.NewEncoder(conn), dec: dec}, nil
}

// Do sends request and waits for the reply. An ERROR reply is returned as an error.
func (c *Client) Do(request map[string]interface{}) (map[string]interface{}, error) {
	if err := c.enc.Encode(request); err != nil {
		return nil, fmt.Errorf("error sending to server: %w", err)
	}

	var response map[string]interface{}
	if err := c.dec.Decode(&response); err != nil {
		return nil, fmt.Errorf("error reading from server: %w", err)
	}

	if status, _ := response["status"].(string); status == "ERROR" {
		message, _ := response["message"].(string)
		return response, errors.New(message)
	}
	return response, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

const controlSendBuffer = 64

var (
	ErrControlQueueFull    = errors.New("control client send queue is full")
	ErrControlClientClosed = errors.New("control client is closed")
)

// controlClient owns the outgoing queue of one control conn. Only its write
// pump writes to the conn, so enqueueing never waits on the network.
type controlClient struct {
	conn *websocket.Conn
	send chan *Output
	done chan struct{}
	once sync.Once
}

func newControlClient(conn *websocket.Conn) *controlClient {
	return &controlClient{
		conn: conn,
		send: make(chan *Output, controlSendBuffer),
		done: make(chan struct{}),
	}
}

func (cl *controlClient) enqueue(output *Output) error {
	select {
	case <-cl.done:
		return ErrControlClientClosed
	default:
	}

	select {
	case cl.send <- output:
		return nil
	default:
		return ErrControlQueueFull
	}
}

func (cl *controlClient) close() {
	cl.once.Do(func() { close(cl.done) })
}

// drop disconnects a client that cannot keep up. Its reader then sees the
// broken conn and unregisters it.
func (cl *controlClient) drop() {
	cl.close()
	cl.conn.Close()
}

func (c *controller) writePump(ctx context.Context, cl *controlClient) {
	for {
		select {
		case <-cl.done:
			return
		case output := <-cl.send:
			if err := c.writeToConn(ctx, cl.conn, output); err != nil {
				c.logger.InfoContext(ctx, "failed to write to control conn", "error", err)
				cl.drop()
				return
			}
		}
	}
}

func (c *controller) addControlClient(cl *controlClient) {
	c.controlsMu.Lock()
	defer c.controlsMu.Unlock()
	c.controls[cl.conn] = cl
}

func (c *controller) removeControlClient(cl *controlClient) {
	c.controlsMu.Lock()
	defer c.controlsMu.Unlock()
	delete(c.controls, cl.conn)
}

func (c *controller) getControlClient(conn *websocket.Conn) (*controlClient, bool) {
	c.controlsMu.RLock()
	defer c.controlsMu.RUnlock()
	cl, ok := c.controls[conn]
	return cl, ok
}

func (c *controller) sendToControl(ctx context.Context, conn *websocket.Conn, output *Output) error {
	cl, ok := c.getControlClient(conn)
	if !ok {
		return ErrControlClientClosed
	}

	if err := cl.enqueue(output); err != nil {
		if errors.Is(err, ErrControlQueueFull) {
			c.logger.WarnContext(ctx, "control client too slow, disconnecting", "type", output.Type)
			cl.drop()
		}
		return err
	}

	return nil
}

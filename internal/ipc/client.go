package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Ping checks daemon liveness.
func (c *Client) Ping() (*PingResponse, error) {
	var resp PingResponse
	if err := c.client.Call("Reelqueue.Ping", PingRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop background processing.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Reelqueue.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Reelqueue.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Submit queues a new title for a requestor.
func (c *Client) Submit(requestor, title string) (*SubmitResponse, error) {
	var resp SubmitResponse
	req := SubmitRequest{Requestor: requestor, Title: title}
	if err := c.client.Call("Reelqueue.Submit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Remove drops a queued title.
func (c *Client) Remove(title string) (*RemoveResponse, error) {
	var resp RemoveResponse
	if err := c.client.Call("Reelqueue.Remove", RemoveRequest{Title: title}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns the queue in submission order.
func (c *Client) List() (*ListResponse, error) {
	var resp ListResponse
	if err := c.client.Call("Reelqueue.List", ListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Clear removes all queued requests.
func (c *Client) Clear() (*ClearResponse, error) {
	var resp ClearResponse
	if err := c.client.Call("Reelqueue.Clear", ClearRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search runs a catalog keyword search via the daemon.
func (c *Client) Search(keyword string) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.client.Call("Reelqueue.Search", SearchRequest{Keyword: keyword}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SameDirector lists movies sharing a director with the named title.
func (c *Client) SameDirector(title string) (*SameDirectorResponse, error) {
	var resp SameDirectorResponse
	if err := c.client.Call("Reelqueue.SameDirector", SameDirectorRequest{Title: title}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Sessions lists the active playback sessions.
func (c *Client) Sessions() (*SessionListResponse, error) {
	var resp SessionListResponse
	if err := c.client.Call("Reelqueue.Sessions", SessionListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StopSession terminates the first session playing the named title or show.
func (c *Client) StopSession(name, reason string) (*SessionStopResponse, error) {
	var resp SessionStopResponse
	req := SessionStopRequest{Name: name, Reason: reason}
	if err := c.client.Call("Reelqueue.StopSession", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetConnection bounces the server's remote publish preference.
func (c *Client) ResetConnection() (*ResetConnectionResponse, error) {
	var resp ResetConnectionResponse
	if err := c.client.Call("Reelqueue.ResetConnection", ResetConnectionRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reconcile triggers an immediate reconciliation pass.
func (c *Client) Reconcile() (*ReconcileResponse, error) {
	var resp ReconcileResponse
	if err := c.client.Call("Reelqueue.Reconcile", ReconcileRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SnapshotExport writes the queue snapshot to disk.
func (c *Client) SnapshotExport(path string) (*SnapshotExportResponse, error) {
	var resp SnapshotExportResponse
	if err := c.client.Call("Reelqueue.SnapshotExport", SnapshotExportRequest{Path: path}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SnapshotImport replaces the queue from a snapshot file.
func (c *Client) SnapshotImport(path string) (*SnapshotImportResponse, error) {
	var resp SnapshotImportResponse
	if err := c.client.Call("Reelqueue.SnapshotImport", SnapshotImportRequest{Path: path}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatabaseHealth retrieves detailed database diagnostics.
func (c *Client) DatabaseHealth() (*DatabaseHealthResponse, error) {
	var resp DatabaseHealthResponse
	if err := c.client.Call("Reelqueue.DatabaseHealth", DatabaseHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Reelqueue.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

package rpc

import (
	"context"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/tasks/storage"
	"github.com/tailored-agentic-units/tasks/task"
)

// Client calls a remote TaskService.
type Client struct {
	find    *connect.Client[structpb.Struct, structpb.Struct]
	findAll *connect.Client[structpb.Struct, structpb.Struct]
	save    *connect.Client[structpb.Struct, structpb.Struct]
	remove  *connect.Client[structpb.Struct, structpb.Struct]
	drop    *connect.Client[structpb.Struct, structpb.Struct]
}

// NewClient creates a Client for the service at baseURL
// (e.g. "http://localhost:8080").
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		find:    connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+FindProcedure, opts...),
		findAll: connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+FindAllProcedure, opts...),
		save:    connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+SaveProcedure, opts...),
		remove:  connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+RemoveProcedure, opts...),
		drop:    connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+DropProcedure, opts...),
	}
}

// Find returns the tasks matching query.
func (c *Client) Find(ctx context.Context, query task.Query) ([]task.Task, error) {
	return call(ctx, c.find, map[string]any{fieldQuery: map[string]any(query)})
}

// FindAll returns every task.
func (c *Client) FindAll(ctx context.Context) ([]task.Task, error) {
	return call(ctx, c.findAll, map[string]any{})
}

// Save inserts data (id zero) or merges it into the task with id. Inserts
// return the new task; updates return the whole list.
func (c *Client) Save(ctx context.Context, data task.Fields, id int64) ([]task.Task, error) {
	req := map[string]any{fieldData: map[string]any(data.Clone())}
	if id != 0 {
		req[fieldID] = id
	}
	return call(ctx, c.save, req)
}

// Remove deletes every task with id and returns the remaining list.
func (c *Client) Remove(ctx context.Context, id int64) ([]task.Task, error) {
	return call(ctx, c.remove, map[string]any{fieldID: id})
}

// Drop empties the collection.
func (c *Client) Drop(ctx context.Context) ([]task.Task, error) {
	return call(ctx, c.drop, map[string]any{})
}

func call(ctx context.Context, client *connect.Client[structpb.Struct, structpb.Struct], req map[string]any) ([]task.Task, error) {
	msg, err := structpb.NewStruct(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	resp, err := client.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}

	c, err := storage.CollectionFromStruct(resp.Msg)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return c.Tasks, nil
}

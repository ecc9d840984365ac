// Package rpc serves a task store over Connect. Messages are
// google.protobuf.Struct values shaped like the JSON collection format, so
// no generated code is involved:
//
//	Find     {"query": {...}}          -> {"tasks": [...]}
//	FindAll  {}                        -> {"tasks": [...]}
//	Save     {"data": {...}, "id": n}  -> {"tasks": [...]}
//	Remove   {"id": n}                 -> {"tasks": [...]}
//	Drop     {}                        -> {"tasks": []}
//
// Each response carries the list the matching Store callback received.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/tasks/storage"
	"github.com/tailored-agentic-units/tasks/store"
	"github.com/tailored-agentic-units/tasks/task"
)

// ServiceName is the fully-qualified Connect service name.
const ServiceName = "tasks.v1.TaskService"

// Procedure paths.
const (
	FindProcedure    = "/" + ServiceName + "/Find"
	FindAllProcedure = "/" + ServiceName + "/FindAll"
	SaveProcedure    = "/" + ServiceName + "/Save"
	RemoveProcedure  = "/" + ServiceName + "/Remove"
	DropProcedure    = "/" + ServiceName + "/Drop"
)

// Request fields.
const (
	fieldQuery = "query"
	fieldData  = "data"
	fieldID    = "id"
)

type handler struct {
	store *store.Store
	mu    sync.Mutex
}

// NewHandler returns the path prefix and handler serving s. Calls are
// serialized: a Store is single-threaded, HTTP is not.
func NewHandler(s *store.Store, opts ...connect.HandlerOption) (string, http.Handler) {
	h := &handler{store: s}

	mux := http.NewServeMux()
	mux.Handle(FindProcedure, connect.NewUnaryHandler(FindProcedure, h.find, opts...))
	mux.Handle(FindAllProcedure, connect.NewUnaryHandler(FindAllProcedure, h.findAll, opts...))
	mux.Handle(SaveProcedure, connect.NewUnaryHandler(SaveProcedure, h.save, opts...))
	mux.Handle(RemoveProcedure, connect.NewUnaryHandler(RemoveProcedure, h.remove, opts...))
	mux.Handle(DropProcedure, connect.NewUnaryHandler(DropProcedure, h.drop, opts...))

	return "/" + ServiceName + "/", mux
}

// NewHTTPServer returns an http.Server for s on addr that accepts HTTP/1.1
// and cleartext HTTP/2, so gRPC clients work without TLS.
func NewHTTPServer(addr string, s *store.Store, opts ...connect.HandlerOption) *http.Server {
	path, h := NewHandler(s, opts...)
	mux := http.NewServeMux()
	mux.Handle(path, h)

	return &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (h *handler) find(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	query, err := objectField(req.Msg, fieldQuery)
	if err != nil {
		return nil, err
	}

	var result []task.Task
	h.mu.Lock()
	h.store.Find(task.Query(query), func(ts []task.Task) { result = ts })
	h.mu.Unlock()

	return respond(result)
}

func (h *handler) findAll(ctx context.Context, _ *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var result []task.Task
	h.mu.Lock()
	h.store.FindAll(func(ts []task.Task) { result = ts })
	h.mu.Unlock()

	return respond(result)
}

func (h *handler) save(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	data, err := objectField(req.Msg, fieldData)
	if err != nil {
		return nil, err
	}
	id, _, err := idField(req.Msg)
	if err != nil {
		return nil, err
	}

	var result []task.Task
	h.mu.Lock()
	err = h.store.Save(ctx, task.Fields(data), func(ts []task.Task) { result = ts }, id)
	h.mu.Unlock()
	if err != nil {
		return nil, storeError(err)
	}

	return respond(result)
}

func (h *handler) remove(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	id, ok, err := idField(req.Msg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s is required", fieldID))
	}

	var result []task.Task
	h.mu.Lock()
	err = h.store.Remove(ctx, id, func(ts []task.Task) { result = ts })
	h.mu.Unlock()
	if err != nil {
		return nil, storeError(err)
	}

	return respond(result)
}

func (h *handler) drop(ctx context.Context, _ *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	var result []task.Task
	h.mu.Lock()
	err := h.store.Drop(ctx, func(ts []task.Task) { result = ts })
	h.mu.Unlock()
	if err != nil {
		return nil, storeError(err)
	}

	return respond(result)
}

func respond(tasks []task.Task) (*connect.Response[structpb.Struct], error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	msg, err := storage.CollectionToStruct(task.Collection{Tasks: tasks})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

// objectField returns the object under key, or an empty map when absent.
func objectField(msg *structpb.Struct, key string) (map[string]any, error) {
	v, ok := msg.GetFields()[key]
	if !ok {
		return map[string]any{}, nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return map[string]any{}, nil
	}
	obj := v.GetStructValue()
	if obj == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s must be an object", key))
	}
	return obj.AsMap(), nil
}

// idField returns the task id in msg and whether one was present.
func idField(msg *structpb.Struct) (int64, bool, error) {
	v, ok := msg.GetFields()[fieldID]
	if !ok {
		return 0, false, nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return 0, false, nil
	}
	id, err := task.ParseID(v.AsInterface())
	if err != nil {
		return 0, false, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return id, true, nil
}

func storeError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, store.ErrPersistFailed):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

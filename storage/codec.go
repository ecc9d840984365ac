package storage

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/tasks/task"
)

// tasksKey names the task list inside a serialized collection.
const tasksKey = "tasks"

// Codec converts a collection to and from the bytes held in a slot. Every
// JSON-representable field value survives a round trip.
type Codec interface {
	Name() string
	Encode(c task.Collection) ([]byte, error)
	Decode(data []byte) (task.Collection, error)
}

// JSONCodec stores collections as {"tasks":[...]} JSON text.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecJSON }

func (JSONCodec) Encode(c task.Collection) ([]byte, error) {
	if c.Tasks == nil {
		c.Tasks = []task.Task{}
	}
	return json.Marshal(c)
}

func (JSONCodec) Decode(data []byte) (task.Collection, error) {
	var c task.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return task.Collection{}, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	if c.Tasks == nil {
		c.Tasks = []task.Task{}
	}
	return c, nil
}

// ProtoCodec stores collections as a binary google.protobuf.Struct with the
// same shape as the JSON form.
type ProtoCodec struct{}

func (ProtoCodec) Name() string { return CodecProto }

func (ProtoCodec) Encode(c task.Collection) ([]byte, error) {
	s, err := CollectionToStruct(c)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

func (ProtoCodec) Decode(data []byte) (task.Collection, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return task.Collection{}, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return CollectionFromStruct(&s)
}

// CollectionToStruct converts c into its google.protobuf.Struct form.
func CollectionToStruct(c task.Collection) (*structpb.Struct, error) {
	list := make([]any, len(c.Tasks))
	for i, t := range c.Tasks {
		list[i] = t.Map()
	}
	s, err := structpb.NewStruct(map[string]any{tasksKey: list})
	if err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	return s, nil
}

// CollectionFromStruct parses the google.protobuf.Struct form of a collection.
// A missing task list decodes as empty.
func CollectionFromStruct(s *structpb.Struct) (task.Collection, error) {
	c := task.Empty()
	if s == nil {
		return c, nil
	}
	raw, ok := s.AsMap()[tasksKey]
	if !ok || raw == nil {
		return c, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return task.Collection{}, fmt.Errorf("%w: %s is %T, want list", ErrDecodeFailed, tasksKey, raw)
	}
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return task.Collection{}, fmt.Errorf("%w: task %d is %T, want object", ErrDecodeFailed, i, item)
		}
		t, err := task.FromMap(m)
		if err != nil {
			return task.Collection{}, fmt.Errorf("%w: task %d: %v", ErrDecodeFailed, i, err)
		}
		c.Tasks = append(c.Tasks, t)
	}
	return c, nil
}

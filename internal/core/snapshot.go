package core

import (
	"io"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Snapshot describes the whole chain as a protobuf Struct:
//
//	{"blocks": [{"index", "timestamp", "data", "hash", "prev_hash", "program"}]}
//
// program holds the payload for program blocks and null otherwise.
func (c *Chain) Snapshot() (*structpb.Struct, error) {
	c.lock()
	entries := make([]interface{}, 0, len(c.blocks))
	for i, b := range c.blocks {
		var program interface{}
		if b.program != nil {
			program = b.payload
		}
		entries = append(entries, map[string]interface{}{
			"index":     i,
			"timestamp": b.timestamp,
			"data":      b.payload,
			"hash":      b.hash,
			"prev_hash": b.previousHash,
			"program":   program,
		})
	}
	c.unlock()

	s, err := structpb.NewStruct(map[string]interface{}{"blocks": entries})
	if err != nil {
		return nil, errors.Wrap(err, "build chain snapshot")
	}
	return s, nil
}

// RenderSnapshot writes the chain snapshot to w as indented JSON.
func RenderSnapshot(w io.Writer, c *Chain) error {
	s, err := c.Snapshot()
	if err != nil {
		return err
	}

	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "marshal chain snapshot")
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return errors.Wrap(err, "write chain snapshot")
	}
	return nil
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/sift/core"
)

// Timestamps are stored as Unix microseconds in UTC.

// MarshalItem serializes an Item to bytes.
func MarshalItem(item *core.Item) []byte {
	buf := make([]byte, sizeItem(item))
	marshalItem(item, buf)
	return buf
}

// UnmarshalItem deserializes an Item from bytes.
func UnmarshalItem(data []byte) (*core.Item, error) {
	item, _, err := unmarshalItem(data)
	if err != nil {
		return nil, fmt.Errorf("%w: item: %w", ErrSerializationFailed, err)
	}
	return item, nil
}

// MarshalVector serializes a vector to bytes.
func MarshalVector(vector []float32) []byte {
	size := varint.Int.Size(len(vector))
	for _, f := range vector {
		size += varint.Uint32.Size(math.Float32bits(f))
	}
	buf := make([]byte, size)
	n := varint.Int.Marshal(len(vector), buf)
	for _, f := range vector {
		n += varint.Uint32.Marshal(math.Float32bits(f), buf[n:])
	}
	return buf
}

// UnmarshalVector deserializes a vector from bytes.
func UnmarshalVector(data []byte) ([]float32, error) {
	length, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: vector length: %w", ErrSerializationFailed, err)
	}
	if length < 0 || length > len(data)-n {
		return nil, fmt.Errorf("%w: vector length %d", ErrTruncatedData, length)
	}
	vector := make([]float32, length)
	for i := range vector {
		bits, m, err := varint.Uint32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: vector element %d: %w", ErrSerializationFailed, i, err)
		}
		vector[i] = math.Float32frombits(bits)
		n += m
	}
	return vector, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes.
func MarshalCheckpoint(checkpoint *core.Checkpoint) []byte {
	size := ord.String.Size(checkpoint.Name) +
		varint.Int64.Size(checkpoint.LastCreatedAt.UnixMicro()) +
		ord.String.Size(checkpoint.LastID) +
		varint.Int.Size(checkpoint.Processed) +
		varint.Int64.Size(checkpoint.UpdatedAt.UnixMicro())
	buf := make([]byte, size)
	n := ord.String.Marshal(checkpoint.Name, buf)
	n += varint.Int64.Marshal(checkpoint.LastCreatedAt.UnixMicro(), buf[n:])
	n += ord.String.Marshal(checkpoint.LastID, buf[n:])
	n += varint.Int.Marshal(checkpoint.Processed, buf[n:])
	varint.Int64.Marshal(checkpoint.UpdatedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	r := reader{data: data}
	c := &core.Checkpoint{
		Name:          r.string(),
		LastCreatedAt: r.time(),
		LastID:        r.string(),
		Processed:     r.int(),
		UpdatedAt:     r.time(),
	}
	if r.err != nil {
		return nil, fmt.Errorf("%w: checkpoint: %w", ErrSerializationFailed, r.err)
	}
	return c, nil
}

func sizeItem(item *core.Item) int {
	size := ord.String.Size(item.ID) +
		ord.String.Size(item.Title) +
		ord.String.Size(item.Description) +
		ord.String.Size(item.URL) +
		varint.Int.Size(len(item.Tags)) +
		varint.Int64.Size(item.CreatedAt.UnixMicro()) +
		ord.String.Size(string(item.ContentType))
	for _, tag := range item.Tags {
		size += ord.String.Size(tag.Name)
	}
	return size
}

func marshalItem(item *core.Item, buf []byte) int {
	n := ord.String.Marshal(item.ID, buf)
	n += ord.String.Marshal(item.Title, buf[n:])
	n += ord.String.Marshal(item.Description, buf[n:])
	n += ord.String.Marshal(item.URL, buf[n:])
	n += varint.Int.Marshal(len(item.Tags), buf[n:])
	for _, tag := range item.Tags {
		n += ord.String.Marshal(tag.Name, buf[n:])
	}
	n += varint.Int64.Marshal(item.CreatedAt.UnixMicro(), buf[n:])
	n += ord.String.Marshal(string(item.ContentType), buf[n:])
	return n
}

func unmarshalItem(data []byte) (*core.Item, int, error) {
	r := reader{data: data}
	item := &core.Item{
		ID:          r.string(),
		Title:       r.string(),
		Description: r.string(),
		URL:         r.string(),
	}
	count := r.int()
	if r.err == nil && (count < 0 || count > len(data)-r.n) {
		r.err = fmt.Errorf("%w: tag count %d", ErrTruncatedData, count)
	}
	if r.err == nil && count > 0 {
		item.Tags = make([]core.Tag, count)
		for i := range item.Tags {
			item.Tags[i].Name = r.string()
		}
	}
	item.CreatedAt = r.time()
	item.ContentType = core.ContentType(r.string())
	if r.err != nil {
		return nil, r.n, r.err
	}
	return item, r.n, nil
}

// reader walks a buffer, remembering the first error so field sequences
// can be decoded without checking after every call.
type reader struct {
	data []byte
	n    int
	err  error
}

func (r *reader) string() string {
	if r.err != nil {
		return ""
	}
	v, m, err := ord.String.Unmarshal(r.data[r.n:])
	r.n += m
	r.err = err
	return v
}

func (r *reader) int() int {
	if r.err != nil {
		return 0
	}
	v, m, err := varint.Int.Unmarshal(r.data[r.n:])
	r.n += m
	r.err = err
	return v
}

func (r *reader) time() time.Time {
	if r.err != nil {
		return time.Time{}
	}
	v, m, err := varint.Int64.Unmarshal(r.data[r.n:])
	r.n += m
	r.err = err
	return time.UnixMicro(v).UTC()
}

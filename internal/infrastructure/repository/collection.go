package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errNullCollection = errors.New("collection is null")

type entity[T any] interface {
	Key() string
	Clone() T
}

// validator is implemented by entities that carry data-model invariants.
type validator interface {
	Validate() error
}

// collection keeps entities in insertion order with an id index.
type collection[T entity[T]] struct {
	items []T
	index map[string]int
}

func (c *collection[T]) get(id string) (T, bool) {
	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

func (c *collection[T]) put(v T) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[v.Key()]; ok {
		c.items[i] = v
		return
	}
	c.index[v.Key()] = len(c.items)
	c.items = append(c.items, v)
}

func (c *collection[T]) remove(id string) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.items); j++ {
		c.index[c.items[j].Key()] = j
	}
	return true
}

// fork returns a copy that can be written without touching c.
// Entities are stored as private clones, so copying the slice is enough.
func (c *collection[T]) fork() collection[T] {
	out := collection[T]{
		items: make([]T, len(c.items)),
		index: make(map[string]int, len(c.index)),
	}
	copy(out.items, c.items)
	for k, v := range c.index {
		out.index[k] = v
	}
	return out
}

func (c *collection[T]) list() []T {
	out := make([]T, len(c.items))
	for i, v := range c.items {
		out[i] = v.Clone()
	}
	return out
}

func (c *collection[T]) marshal() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

// unmarshal rejects a null document and any entity that breaks its invariants.
func (c *collection[T]) unmarshal(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errNullCollection
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	fresh := collection[T]{index: make(map[string]int, len(items))}
	for i, v := range items {
		if val, ok := any(v).(validator); ok {
			if err := val.Validate(); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		fresh.put(v)
	}
	*c = fresh
	return nil
}

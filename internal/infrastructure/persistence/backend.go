package persistence

import "context"

// Backend stores one JSON document per key. An absent key is not an error:
// Read reports it with ok == false.
type Backend interface {
	Read(ctx context.Context, key string) (data []byte, ok bool, err error)
	Write(ctx context.Context, key string, data []byte) error
}

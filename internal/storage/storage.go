// Package storage provides the durable key/value namespace the record store
// and the session domains persist their JSON blobs into.
package storage

// Backend is a keyed blob store. Get returns (nil, nil) when the key is
// absent; callers decide how to degrade on read faults.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

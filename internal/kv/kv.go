package kv

// Entry is a single key-value pair returned by prefix listings.
type Entry struct {
	Key   string
	Value []byte
}

// Store is the minimal key-value surface Hawk is built on: per-key atomic
// get/set/delete plus an ordered prefix scan. A missing key reads as
// (nil, nil), not as an error.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	List(prefix string) ([]Entry, error)
}

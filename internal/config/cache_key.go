package config

import (
	"fmt"
)

// Storage keys written by the session store. The names match what the
// browser portal kept in localStorage.
const (
	StorageKeyToken = "token"
	StorageKeyRole  = "role"

	// ClientKeyRoot prefixes every client namespace.
	ClientKeyRoot = "client:"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ClientNamespace returns the storage prefix that isolates one client context.
func (r *CacheKeyStruct) ClientNamespace(clientID string) string {
	return ClientKeyRoot + clientID + ":"
}

// RedisStorageKey returns the Redis key holding a raw storage entry.
func (r *CacheKeyStruct) RedisStorageKey(key string) string {
	return fmt.Sprintf("erp:storage:%s", key)
}

// SessionEventChannel returns the Redis PubSub channel for a client's session events.
func (r *CacheKeyStruct) SessionEventChannel(clientID string) string {
	return fmt.Sprintf("erp:client:%s:session", clientID)
}

var CacheKey = NewCacheKeyStruct()

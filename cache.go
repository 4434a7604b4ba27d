package wfs

import (
	"context"
	"sync"
)

// SchemaCache holds one compiled schema per endpoint. Each entry is built
// through sync.Once, so concurrent callers share a single DescribeFeatureType
// request and a single compilation.
type SchemaCache struct {
	mu      sync.Mutex
	schemas map[Endpoint]*schemaEntry
	builder *SchemaBuilder
}

// schemaEntry holds a schema and the error from building it
type schemaEntry struct {
	once   sync.Once
	schema CompiledSchema
	err    error
}

// NewSchemaCache creates a cache that builds schemas with builder
func NewSchemaCache(builder *SchemaBuilder) *SchemaCache {
	return &SchemaCache{
		schemas: make(map[Endpoint]*schemaEntry),
		builder: builder,
	}
}

// Get returns the compiled schema for endpoint, building it on first use.
// A failed build is remembered; the run has to be aborted anyway.
func (sc *SchemaCache) Get(ctx context.Context, endpoint Endpoint) (CompiledSchema, error) {
	sc.mu.Lock()
	entry, exists := sc.schemas[endpoint]
	if !exists {
		entry = &schemaEntry{}
		sc.schemas[endpoint] = entry
	}
	sc.mu.Unlock()

	entry.once.Do(func() {
		entry.schema, entry.err = sc.builder.Build(ctx, endpoint)
	})
	return entry.schema, entry.err
}

// Close frees every compiled schema and empties the cache
func (sc *SchemaCache) Close() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for _, entry := range sc.schemas {
		if entry.schema != nil {
			entry.schema.Free()
		}
	}
	sc.schemas = make(map[Endpoint]*schemaEntry)
}

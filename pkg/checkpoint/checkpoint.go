package checkpoint

import (
	"context"
	"strconv"
	"sync"

	"github.com/fox-one/pkg/property"
)

// Store int64 progress markers kept by workers between runs
type Store interface {
	Read(ctx context.Context, key string) (int64, error)
	Save(ctx context.Context, key string, v int64) error
}

type propertyCheckpoint struct {
	property property.Store
}

// Property checkpoints persisted in the property store
func Property(property property.Store) Store {
	return &propertyCheckpoint{property: property}
}

func (p *propertyCheckpoint) Read(ctx context.Context, key string) (int64, error) {
	v, err := p.property.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

func (p *propertyCheckpoint) Save(ctx context.Context, key string, v int64) error {
	return p.property.Save(ctx, key, strconv.FormatInt(v, 10))
}

type memoryCheckpoint struct {
	mux    sync.Mutex
	values map[string]int64
}

// Memory checkpoints lost on restart
func Memory() Store {
	return &memoryCheckpoint{values: map[string]int64{}}
}

func (m *memoryCheckpoint) Read(ctx context.Context, key string) (int64, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	return m.values[key], nil
}

func (m *memoryCheckpoint) Save(ctx context.Context, key string, v int64) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.values[key] = v
	return nil
}

package mfe

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

/*
Record is a Result saved in a ResultStore under an id, with the name given
when saving it (usually that of the dataset it was extracted from)
*/
type Record struct {
	ID     string
	Name   string
	Result *Result
}

/*
ResultStore is an interface to manage a store where the results of
extractions can be saved and retrieved.

All its methods take a context that may allow cancelling the operation
(thus forcing the return of an error) if the implementation allows it.
*/
type ResultStore interface {
	// Save takes a name and a result, stores them under a new id and
	// returns the id, or an error if they cannot be stored.
	Save(ctx context.Context, name string, r *Result) (string, error)
	// Load takes an id and returns the record stored with that id (or nil
	// if there is none) or an error if the store cannot be queried.
	Load(ctx context.Context, id string) (*Record, error)
	// Close frees the resources held by the store.
	Close(ctx context.Context) error
}

type memoryResultStore struct {
	records map[string]*Record
	lock    *sync.RWMutex
}

/*
NewMemoryResultStore returns an implementation of ResultStore with the
process memory space as underlying backend
*/
func NewMemoryResultStore() ResultStore {
	return &memoryResultStore{
		records: make(map[string]*Record),
		lock:    &sync.RWMutex{},
	}
}

func (mrs *memoryResultStore) Save(ctx context.Context, name string, r *Result) (string, error) {
	var id string
	err := mrs.withLock(ctx, func(ctx context.Context) error {
		taken := true
		for taken {
			if err := ctx.Err(); err != nil {
				return err
			}
			id = uuid.New().String()
			_, taken = mrs.records[id]
		}
		mrs.records[id] = &Record{ID: id, Name: name, Result: r}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (mrs *memoryResultStore) Load(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mrs.lock.RLock()
	defer mrs.lock.RUnlock()
	return mrs.records[id], nil
}

func (mrs *memoryResultStore) Close(ctx context.Context) error {
	return nil
}

func (mrs *memoryResultStore) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	gotLock := make(chan struct{})
	go func() {
		mrs.lock.Lock()
		select {
		case <-ctx.Done():
			mrs.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer mrs.lock.Unlock()
	}
	return f(ctx)
}

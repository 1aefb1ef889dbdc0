package storage

import (
	"context"

	"github.com/netlab/netlabctl/internal/database/repository"
)

// SQL adapts the sqlite kv table to Storage.
type SQL struct {
	repo *repository.KVRepo
}

func NewSQL(repo *repository.KVRepo) *SQL {
	return &SQL{repo: repo}
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	e, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if e == nil {
		return "", false, nil
	}
	return e.Value, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	return s.repo.Upsert(ctx, key, value)
}

func (s *SQL) Remove(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

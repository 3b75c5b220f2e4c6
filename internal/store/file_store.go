package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spiritnsoul/couponart/internal/coupon"
	"github.com/spiritnsoul/couponart/internal/util"
)

// FileName is the single JSON document holding every record.
const FileName = "ai_coupons.json"

// FileStore keeps all records in one JSON array on disk, newest first.
type FileStore struct {
	path     string
	maxBytes int64
	mu       sync.Mutex
}

// NewFileStore stores records under dir. maxBytes <= 0 means no quota.
func NewFileStore(dir string, maxBytes int64) (*FileStore, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, FileName), maxBytes: maxBytes}, nil
}

func (s *FileStore) Save(ctx context.Context, c coupon.Generated) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	records = append([]coupon.Generated{c}, records...)
	return s.write(records)
}

func (s *FileStore) List(ctx context.Context) ([]coupon.Generated, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) Get(ctx context.Context, serial string) (coupon.Generated, error) {
	records, err := s.List(ctx)
	if err != nil {
		return coupon.Generated{}, err
	}
	for _, r := range records {
		if r.Data.SerialNumber == serial {
			return r, nil
		}
	}
	return coupon.Generated{}, ErrNotFound
}

func (s *FileStore) Delete(ctx context.Context, serial string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, r := range records {
		if r.Data.SerialNumber != serial {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return ErrNotFound
	}
	return s.write(kept)
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) read() ([]coupon.Generated, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []coupon.Generated{}, nil
	}
	if err != nil {
		return nil, err
	}
	var records []coupon.Generated
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return records, nil
}

func (s *FileStore) write(records []coupon.Generated) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return ErrStorageFull
	}
	return util.WriteFileAtomic(s.path, data)
}

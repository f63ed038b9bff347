package inmemdb

import (
	"context"
	"sync"
	"time"

	"github.com/Otsikow/bridge-study-global-sub004/core/university"
)

type universityRepository struct {
	mutex sync.RWMutex
	table map[string]*university.University
}

var _ university.Repository = (*universityRepository)(nil)

// NewUniversityRepository returns a repository seeded with unis.
func NewUniversityRepository(unis ...university.University) *universityRepository {
	repo := &universityRepository{table: make(map[string]*university.University, len(unis))}
	for _, u := range unis {
		u := u
		repo.table[u.ID] = &u
	}
	return repo
}

func (repo *universityRepository) GetByID(_ context.Context, id string) (university.University, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	if u, ok := repo.table[id]; ok {
		return *u, nil
	}
	return university.University{}, university.ErrNotFound
}

func (repo *universityRepository) SetFeaturedImage(_ context.Context, id, imageURL string) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	u, ok := repo.table[id]
	if !ok {
		return university.ErrNotFound
	}
	u.FeaturedImageURL = imageURL
	u.UpdatedAt = time.Now().UTC()
	return nil
}

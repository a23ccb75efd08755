package store

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/GregMSThompson/lithic-dashboard/internal/dto"
)

// recordStore keeps accumulated record sets in process memory for a short
// TTL. A zero TTL disables it, so every request reads the upstream.
type recordStore struct {
	cache *cache.Cache
}

func NewRecordStore(ttl time.Duration) *recordStore {
	if ttl <= 0 {
		return &recordStore{}
	}
	return &recordStore{cache: cache.New(ttl, 2*ttl)}
}

// Get returns the cached set for a card if it can satisfy minRecords: it
// either holds that many records or holds everything the upstream had.
func (s *recordStore) Get(cardToken string, minRecords int) (dto.RecordSet, bool) {
	if s.cache == nil {
		return dto.RecordSet{}, false
	}
	v, ok := s.cache.Get(cardToken)
	if !ok {
		return dto.RecordSet{}, false
	}
	set := v.(dto.RecordSet)
	if !set.Exhausted && len(set.Transactions) < minRecords {
		return dto.RecordSet{}, false
	}
	return set, true
}

// Put stores a complete set. Partial sets are ignored.
func (s *recordStore) Put(cardToken string, set dto.RecordSet) {
	if s.cache == nil || set.Partial {
		return
	}
	if v, ok := s.cache.Get(cardToken); ok {
		// Keep the larger of two sets fetched around the same time.
		if prev := v.(dto.RecordSet); !set.Exhausted && len(prev.Transactions) > len(set.Transactions) {
			return
		}
	}
	s.cache.Set(cardToken, set, cache.DefaultExpiration)
}

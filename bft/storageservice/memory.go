// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.

package storageservice

import (
	"fmt"
	"sync"

	"github.com/AleoHQ/snarkOS/bft/storage"
)

// entry pairs a transmission's payload with the set of certificate IDs
// currently citing it, matching the source's
// IndexMap<TransmissionID, (Transmission, IndexSet<CertificateID>)>.
type entry struct {
	transmission storage.Transmission
	citedBy      map[storage.CertificateID]struct{}
}

// MemoryService is the default, volatile Service backend: a single
// mutex-guarded map from transmission ID to (payload, citing certificates).
type MemoryService struct {
	mu            sync.RWMutex
	transmissions map[storage.TransmissionID]*entry
}

// NewMemoryService constructs an empty in-memory transmission service.
func NewMemoryService() *MemoryService {
	return &MemoryService{transmissions: make(map[storage.TransmissionID]*entry)}
}

func (s *MemoryService) Contains(id storage.TransmissionID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.transmissions[id]
	return ok
}

func (s *MemoryService) Get(id storage.TransmissionID) (storage.Transmission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.transmissions[id]
	if !ok {
		return storage.Transmission{}, false
	}
	return e.transmission, true
}

func (s *MemoryService) FindMissing(_ uint64, requested map[storage.TransmissionID]struct{}, provided map[storage.TransmissionID]storage.Transmission) (map[storage.TransmissionID]storage.Transmission, error) {
	missing := make(map[storage.TransmissionID]storage.Transmission)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range requested {
		if _, ok := s.transmissions[id]; ok {
			continue
		}
		t, ok := provided[id]
		if !ok {
			return nil, fmt.Errorf("storageservice: failed to provide transmission %s", id)
		}
		missing[id] = t
	}
	return missing, nil
}

func (s *MemoryService) Insert(id storage.TransmissionID, t storage.Transmission) (storage.Transmission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, existed := s.transmissions[id]; existed {
		// Upsert of an already-cited entry must not drop its citedBy set;
		// doing so would let a later RemoveForCertificate evict a payload
		// an existing certificate still cites.
		return prev.transmission, true
	}
	s.transmissions[id] = &entry{transmission: t, citedBy: map[storage.CertificateID]struct{}{}}
	return storage.Transmission{}, false
}

func (s *MemoryService) InsertForCertificate(_ uint64, certificateID storage.CertificateID, tids []storage.TransmissionID, missing map[storage.TransmissionID]storage.Transmission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range tids {
		e, ok := s.transmissions[id]
		if !ok {
			t, ok := missing[id]
			if !ok {
				// Upstream FindMissing is a precondition; violating it is a
				// broken invariant, not a recoverable runtime error.
				panic(fmt.Sprintf("storageservice: missing transmission %s not found", id))
			}
			e = &entry{transmission: t, citedBy: map[storage.CertificateID]struct{}{}}
			s.transmissions[id] = e
		}
		e.citedBy[certificateID] = struct{}{}
	}
}

func (s *MemoryService) RemoveForCertificate(_ uint64, certificateID storage.CertificateID, tids []storage.TransmissionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range tids {
		e, ok := s.transmissions[id]
		if !ok {
			continue
		}
		delete(e.citedBy, certificateID)
		if len(e.citedBy) == 0 {
			delete(s.transmissions, id)
		}
	}
}

// Len reports the number of transmissions currently held, for tests and
// diagnostics.
func (s *MemoryService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transmissions)
}

// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package storage

import (
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/btree"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/AleoHQ/snarkOS/bft/bfterrors"
	"github.com/AleoHQ/snarkOS/bft/committee"
	"github.com/AleoHQ/snarkOS/bft/mathutil"
	"github.com/AleoHQ/snarkOS/bft/metrics"
	"github.com/AleoHQ/snarkOS/bft/storageservice"
)

// certCacheSize bounds the read-accelerator cache in front of the
// certificates map. It is purely an accelerator: a miss always falls
// through to the authoritative map, so its size affects throughput, never
// correctness.
const certCacheSize = 4096

// roundNode is the rounds index's btree element: round number as key,
// certSet as the ordered set of certificates admitted at that round.
type roundNode struct {
	round uint64
	set   *certSet
}

func roundLess(a, b roundNode) bool { return a.round < b.round }

// Storage is the central in-memory store of the BFT mempool: committees,
// rounds, certificates and batch IDs, plus the GC watermark. Each index is
// guarded by its own reader-writer lock; transmissions themselves live
// behind the injected storageservice.Service, guarded by its own lock.
//
// Any operation touching more than one index acquires them in the fixed
// order committees -> rounds -> certificates -> batchIDs -> service, to
// preclude deadlock. gcRound is a single atomic value published only after
// a GC sweep's deletions have been queued.
type Storage struct {
	committeesMu sync.RWMutex
	committees   map[uint64]committee.Committee

	roundsMu sync.RWMutex
	rounds   *btree.BTreeG[roundNode]

	certificatesMu sync.RWMutex
	certificates   map[CertificateID]Certificate
	certCache      *lru.Cache[CertificateID, Certificate]

	batchIDsMu sync.RWMutex
	batchIDs   map[BatchID]uint64

	gcRound     atomic.Uint64
	maxGCRounds uint64

	service storageservice.Service
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New constructs an empty Storage. maxGCRounds is the retention window
// width w (spec.md §6's MaxGCRounds); service is the pluggable transmission
// backend; metrics and logger may not be nil (use metrics.Noop() and
// zap.NewNop() in tests that don't care).
func New(maxGCRounds uint64, service storageservice.Service, m *metrics.Metrics, logger *zap.Logger) *Storage {
	cache, err := lru.New[CertificateID, Certificate](certCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which certCacheSize
		// never is.
		panic(err)
	}
	return &Storage{
		committees:   make(map[uint64]committee.Committee),
		rounds:       btree.NewG(32, roundLess),
		certificates: make(map[CertificateID]Certificate),
		certCache:    cache,
		batchIDs:     make(map[BatchID]uint64),
		maxGCRounds:  maxGCRounds,
		service:      service,
		metrics:      m,
		logger:       logger,
	}
}

// GCRound returns the current GC watermark: every round below it has been
// pruned; the watermark round itself is kept.
func (s *Storage) GCRound() uint64 { return s.gcRound.Load() }

// --- read operations ---

func (s *Storage) ContainsRound(r uint64) bool {
	s.roundsMu.RLock()
	defer s.roundsMu.RUnlock()
	node, ok := s.rounds.Get(roundNode{round: r})
	return ok && !node.set.empty()
}

func (s *Storage) ContainsCertificate(cid CertificateID) bool {
	s.certificatesMu.RLock()
	defer s.certificatesMu.RUnlock()
	_, ok := s.certificates[cid]
	return ok
}

func (s *Storage) ContainsBatch(bid BatchID) bool {
	s.batchIDsMu.RLock()
	defer s.batchIDsMu.RUnlock()
	_, ok := s.batchIDs[bid]
	return ok
}

func (s *Storage) ContainsTransmission(tid TransmissionID) bool {
	return s.service.Contains(tid)
}

func (s *Storage) GetCertificate(cid CertificateID) (Certificate, bool) {
	if c, ok := s.certCache.Get(cid); ok {
		return c, true
	}
	s.certificatesMu.RLock()
	c, ok := s.certificates[cid]
	s.certificatesMu.RUnlock()
	if ok {
		s.certCache.Add(cid, c)
	}
	return c, ok
}

// GetCertificatesForRound returns the certificates admitted at r, in
// admission order. The returned slice is a fresh copy.
func (s *Storage) GetCertificatesForRound(r uint64) []Certificate {
	s.roundsMu.RLock()
	node, ok := s.rounds.Get(roundNode{round: r})
	var entries []roundEntry
	if ok {
		entries = node.set.entries()
	}
	s.roundsMu.RUnlock()

	out := make([]Certificate, 0, len(entries))
	for _, e := range entries {
		if c, ok := s.GetCertificate(e.CertificateID); ok {
			out = append(out, c)
		}
	}
	return out
}

func (s *Storage) GetRoundForCertificate(cid CertificateID) (uint64, bool) {
	c, ok := s.GetCertificate(cid)
	if !ok {
		return 0, false
	}
	return c.Round, true
}

func (s *Storage) GetRoundForBatch(bid BatchID) (uint64, bool) {
	s.batchIDsMu.RLock()
	defer s.batchIDsMu.RUnlock()
	r, ok := s.batchIDs[bid]
	return r, ok
}

func (s *Storage) GetCommitteeForRound(r uint64) (committee.Committee, bool) {
	s.committeesMu.RLock()
	defer s.committeesMu.RUnlock()
	c, ok := s.committees[r]
	return c, ok
}

func (s *Storage) GetTransmission(tid TransmissionID) (Transmission, bool) {
	return s.service.Get(tid)
}

// CommitteesIter returns a snapshot of every committee currently held,
// cloned under a read-lock so callers never observe a torn cross-index
// read.
func (s *Storage) CommitteesIter() map[uint64]committee.Committee {
	s.committeesMu.RLock()
	defer s.committeesMu.RUnlock()
	out := make(map[uint64]committee.Committee, len(s.committees))
	for r, c := range s.committees {
		out[r] = c
	}
	return out
}

// CertificatesIter returns a snapshot of every certificate currently held.
func (s *Storage) CertificatesIter() map[CertificateID]Certificate {
	s.certificatesMu.RLock()
	defer s.certificatesMu.RUnlock()
	out := make(map[CertificateID]Certificate, len(s.certificates))
	for cid, c := range s.certificates {
		out[cid] = c
	}
	return out
}

// BatchIDsIter returns a snapshot of the batch-ID -> round index.
func (s *Storage) BatchIDsIter() map[BatchID]uint64 {
	s.batchIDsMu.RLock()
	defer s.batchIDsMu.RUnlock()
	out := make(map[BatchID]uint64, len(s.batchIDs))
	for bid, r := range s.batchIDs {
		out[bid] = r
	}
	return out
}

// RoundsIter returns a snapshot of every round's certificate entries.
func (s *Storage) RoundsIter() map[uint64][]roundEntry {
	s.roundsMu.RLock()
	defer s.roundsMu.RUnlock()
	out := make(map[uint64][]roundEntry)
	s.rounds.Ascend(func(n roundNode) bool {
		if !n.set.empty() {
			out[n.round] = n.set.entries()
		}
		return true
	})
	return out
}

// --- write operations ---

// InsertTransmission adds a bare transmission to the free pool (not yet
// cited by any certificate).
func (s *Storage) InsertTransmission(tid TransmissionID, t Transmission) {
	s.service.Insert(tid, t)
}

// InsertCommittee installs committee c and then runs the garbage collector
// (see gc.go); this is the only path that advances the GC watermark.
func (s *Storage) InsertCommittee(c committee.Committee) {
	s.committeesMu.Lock()
	s.committees[c.Round()] = c
	s.committeesMu.Unlock()

	s.sweep(c.Round())
}

// InsertCertificate runs the seven-step admission pipeline of spec.md §4.1
// and, on success, applies every index update atomically. It returns a
// *bfterrors.Error describing the first failing check.
func (s *Storage) InsertCertificate(c Certificate) error {
	// Step 1: certificate duplicate.
	if s.ContainsCertificate(c.ID) {
		return s.reject(bfterrors.AlreadyExists, c, "certificate already exists")
	}
	// Step 2: batch duplicate.
	if s.ContainsBatch(c.BatchID) {
		return s.reject(bfterrors.AlreadyExists, c, "batch already exists")
	}

	// Step 3: previous round, saturating at 0.
	prev := uint64(0)
	if c.Round > 0 {
		prev = c.Round - 1
	}
	gcRound := s.gcRound.Load()

	// Step 4: previous round must be non-empty, unless already GC'd.
	if prev > gcRound && !s.ContainsRound(prev) {
		return s.reject(bfterrors.MissingPrerequisite, c, "missing previous round")
	}

	// Step 5: every cited transmission must already be stored.
	if c.Round > gcRound {
		for _, tid := range c.TransmissionIDs {
			if !s.service.Contains(tid) {
				return s.reject(bfterrors.MissingPrerequisite, c, "missing transmission")
			}
		}
	}

	var parents []Certificate
	if prev > gcRound {
		// Previous committee must be defined.
		prevCommittee, ok := s.GetCommitteeForRound(prev)
		if !ok {
			return s.reject(bfterrors.MissingPrerequisite, c, "missing previous committee")
		}

		// Every named parent must exist at exactly round prev.
		parents = make([]Certificate, 0, len(c.PreviousCertificateIDs))
		for _, pcid := range c.PreviousCertificateIDs {
			pc, ok := s.GetCertificate(pcid)
			if !ok || pc.Round != prev {
				return s.reject(bfterrors.MissingPrerequisite, c, "missing or misplaced previous certificate")
			}
			parents = append(parents, pc)
		}

		// Parents' combined stake (deduplicated by author) must reach quorum.
		if sumParentStake(parents, prevCommittee) < prevCommittee.QuorumThreshold() {
			return s.reject(bfterrors.QuorumShortfall, c, "parents below quorum")
		}
	}

	// Step 7: apply every index update atomically. The rounds, certificates
	// and batch-ID locks are held together (in the fixed order), so no
	// reader observes a partially inserted certificate; the transmission
	// citations are then recorded in the service.
	s.roundsMu.Lock()
	s.certificatesMu.Lock()
	s.batchIDsMu.Lock()
	node, ok := s.rounds.Get(roundNode{round: c.Round})
	if !ok {
		node = roundNode{round: c.Round, set: newCertSet()}
	}
	node.set.insert(roundEntry{CertificateID: c.ID, BatchID: c.BatchID, Author: c.Author})
	s.rounds.ReplaceOrInsert(node)
	s.certificates[c.ID] = c
	s.certCache.Add(c.ID, c)
	s.batchIDs[c.BatchID] = c.Round
	s.batchIDsMu.Unlock()
	s.certificatesMu.Unlock()
	s.roundsMu.Unlock()

	s.service.InsertForCertificate(c.Round, c.ID, c.TransmissionIDs, nil)

	return nil
}

// RemoveCertificate removes certificate cid and cascades the removal
// through the rounds, batch-ID, and transmission-refcount indices. It is
// idempotent: removing an absent certificate returns false and mutates
// nothing.
func (s *Storage) RemoveCertificate(cid CertificateID) bool {
	s.certificatesMu.Lock()
	c, ok := s.certificates[cid]
	if !ok {
		s.certificatesMu.Unlock()
		return false
	}
	delete(s.certificates, cid)
	s.certificatesMu.Unlock()
	s.certCache.Remove(cid)

	s.roundsMu.Lock()
	if node, ok := s.rounds.Get(roundNode{round: c.Round}); ok {
		node.set.remove(cid)
		if node.set.empty() {
			s.rounds.Delete(roundNode{round: c.Round})
		}
	}
	s.roundsMu.Unlock()

	s.batchIDsMu.Lock()
	delete(s.batchIDs, c.BatchID)
	s.batchIDsMu.Unlock()

	s.service.RemoveForCertificate(c.Round, cid, c.TransmissionIDs)

	return true
}

// reject logs and counts a rejected certificate, then returns the typed
// error describing why.
func (s *Storage) reject(kind bfterrors.Kind, c Certificate, reason string) error {
	if s.metrics != nil {
		s.metrics.AdmissionRejections.WithLabelValues(kind.String()).Inc()
	}
	if s.logger != nil {
		s.logger.Info("certificate rejected",
			zap.Uint64("round", c.Round),
			zap.Stringer("certificate_id", c.ID),
			zap.String("reason", reason),
		)
	}
	return bfterrors.New(kind, c.Round, c.ID, reason)
}

// sumParentStake sums the stake of the distinct authors of parents,
// deduplicating multiple parents from the same author, matching the
// source's authors = {certificates[pcid].author : pcid ∈ ...} set
// comprehension.
func sumParentStake(parents []Certificate, committeeAtPrev committee.Committee) uint64 {
	authors := mapset.NewThreadUnsafeSet[committee.Address]()
	for _, p := range parents {
		authors.Add(p.Author)
	}
	var total uint64
	for author := range authors.Iter() {
		sum, overflow := mathutil.SafeAdd(total, committeeAtPrev.StakeOf(author))
		if overflow {
			// committeeAtPrev.TotalStake() already fits in a uint64 (enforced
			// at construction), so a subset of its per-author stakes can
			// never overflow; reaching here means that invariant broke.
			panic("storage: parent stake sum overflowed uint64")
		}
		total = sum
	}
	return total
}

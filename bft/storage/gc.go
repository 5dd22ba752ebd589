// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.

package storage

import "go.uber.org/zap"

// sweep runs the garbage collector, triggered only from InsertCommittee. r
// is the newly installed committee's round; w is maxGCRounds. It computes
// next = r - w (saturating at 0) and, if next is past the current
// watermark, removes every round in [gcRound, next) before publishing next
// as the new watermark.
//
// GC never interleaves with an InsertCertificate for the rounds being
// collected: InsertCertificate step 4/5 already reject any round at or
// below the published watermark, so publishing gcRound before this sweep's
// deletions would be unsafe, and publishing after (as done here) is not:
// a concurrent reader reading a stale watermark only sees rounds this
// sweep has not yet reached.
func (s *Storage) sweep(r uint64) {
	w := s.maxGCRounds
	next := uint64(0)
	if r >= w {
		next = r - w
	}

	gcRound := s.gcRound.Load()
	if next <= gcRound {
		return
	}

	var collected int
	for g := gcRound; g < next; g++ {
		s.roundsMu.RLock()
		node, ok := s.rounds.Get(roundNode{round: g})
		var entries []roundEntry
		if ok {
			entries = node.set.entries()
		}
		s.roundsMu.RUnlock()

		for _, e := range entries {
			if s.RemoveCertificate(e.CertificateID) {
				collected++
			}
		}

		s.committeesMu.Lock()
		delete(s.committees, g)
		s.committeesMu.Unlock()
	}

	s.gcRound.Store(next)

	if s.metrics != nil {
		s.metrics.CertificatesCollected.Add(float64(collected))
		s.metrics.GCRoundsAdvanced.Add(float64(next - gcRound))
	}
	if s.logger != nil {
		s.logger.Info("garbage collection advanced",
			zap.Uint64("from", gcRound),
			zap.Uint64("to", next),
			zap.Int("certificates_collected", collected),
		)
	}
}

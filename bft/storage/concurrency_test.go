// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.

package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/AleoHQ/snarkOS/bft/committee"
)

// TestScenarioConcurrentInsertRead is S6: N worker goroutines insert
// disjoint certificates at rounds drawn from [1..10] while M reader
// goroutines continuously snapshot CertificatesIter; no reader may ever
// observe a certificate whose cid is absent from its round or whose bid
// is absent from batch_ids.
func TestScenarioConcurrentInsertRead(t *testing.T) {
	const (
		numWorkers     = 5
		certsPerWorker = 40
		numReaders     = 4
	)

	s := newTestStorage(t, 1000)
	for r := uint64(0); r <= 10; r++ {
		comm, err := committee.New(r, []committee.Address{addr(1), addr(2), addr(3), addr(4)}, []uint64{1, 1, 1, 1}, 1)
		require.NoError(t, err)
		s.InsertCommittee(comm)
	}

	// Seed rounds 1..9 with one certificate per author, each seed round
	// citing the whole previous one, so a worker certificate at round r >= 2
	// can cite seeds[r-1] and pass the previous-round and parent-quorum
	// checks. Seed IDs set byte 1, so they never collide with certID(idx).
	seeds := make(map[uint64][]CertificateID)
	for r := uint64(1); r <= 9; r++ {
		for k := byte(1); k <= 4; k++ {
			var cid CertificateID
			var bid BatchID
			cid[0], cid[1] = byte(r), k
			bid[0], bid[1] = byte(r), k
			seed := Certificate{ID: cid, BatchID: bid, Round: r, Author: addr(k), PreviousCertificateIDs: seeds[r-1]}
			require.NoError(t, s.InsertCertificate(seed))
			seeds[r] = append(seeds[r], cid)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	var g errgroup.Group

	for w := 0; w < numWorkers; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < certsPerWorker; i++ {
				idx := byte(w*certsPerWorker + i + 1)
				round := uint64(1 + int(idx)%10)
				author := addr(byte(1 + int(idx)%4))
				c := Certificate{
					ID:      certID(idx),
					BatchID: batchID(idx),
					Round:   round,
					Author:  author,

					PreviousCertificateIDs: seeds[round-1],
				}
				// IDs are derived to be disjoint across workers, and every
				// certificate above round 1 cites a full seed round, so
				// every insert here should succeed.
				if err := s.InsertCertificate(c); err != nil {
					return err
				}
			}
			return nil
		})
	}

	readerErrs := make(chan error, numReaders)
	for r := 0; r < numReaders; r++ {
		go func() {
			for {
				select {
				case <-ctx.Done():
					readerErrs <- nil
					return
				default:
				}
				for cid, c := range s.CertificatesIter() {
					foundInRound := false
					for _, e := range s.GetCertificatesForRound(c.Round) {
						if e.ID == cid {
							foundInRound = true
							break
						}
					}
					if !foundInRound {
						readerErrs <- fmt.Errorf("certificate %s absent from rounds[%d]", cid, c.Round)
						return
					}
					if _, ok := s.GetRoundForBatch(c.BatchID); !ok {
						readerErrs <- fmt.Errorf("batch %s absent from batch_ids", c.BatchID)
						return
					}
				}
			}
		}()
	}

	require.NoError(t, g.Wait())
	cancel()
	for r := 0; r < numReaders; r++ {
		require.NoError(t, <-readerErrs)
	}
}

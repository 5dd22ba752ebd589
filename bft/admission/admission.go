// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.

// Package admission implements the certificate admission pipeline: the
// pure validation layer above bft/storage that runs signature/quorum
// verification, timestamp liveness, and committee-membership checks
// before a certificate is allowed to reach Storage.InsertCertificate.
package admission

import (
	"time"

	"go.uber.org/zap"

	"github.com/AleoHQ/snarkOS/bft/bfterrors"
	"github.com/AleoHQ/snarkOS/bft/committee"
	"github.com/AleoHQ/snarkOS/bft/ledger"
	"github.com/AleoHQ/snarkOS/bft/metrics"
	"github.com/AleoHQ/snarkOS/bft/storage"
)

// Verifier checks a batch certificate's aggregate signatures cover its
// batch ID with stake at least quorum at the certificate's round.
// Cryptographic primitives are out of scope for this module; production
// code supplies a Verifier backed by the real signature scheme.
type Verifier interface {
	VerifyCertificate(c storage.Certificate, comm committee.Committee) error
}

// Clock supplies the current time for the liveness check, so admission is
// deterministically testable. Production code supplies a Clock backed by
// time.Now().Unix().
type Clock interface {
	Now() int64
}

// SystemClock is the production Clock, backed by the wall clock.
type SystemClock struct{}

func (SystemClock) Now() int64 { return time.Now().Unix() }

// Pipeline runs the three pre-storage admission checks of spec.md §4.4
// ahead of Storage.InsertCertificate.
type Pipeline struct {
	storage           *storage.Storage
	ledger            ledger.Ledger
	verifier          Verifier
	clock             Clock
	maxTimestampDelta int64 // Δ, in seconds

	metrics *metrics.Metrics
	logger  *zap.Logger
}

// New constructs a Pipeline. maxTimestampDelta is Δ from bft/config's
// MaxTimestampDelta, converted to seconds to match the Unix-epoch
// timestamps carried by storage.Certificate. l may be nil, in which case
// the already-committed-transaction check is skipped (useful for tests
// that don't model a ledger).
func New(s *storage.Storage, l ledger.Ledger, verifier Verifier, clock Clock, maxTimestampDelta time.Duration, m *metrics.Metrics, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		storage:           s,
		ledger:            l,
		verifier:          verifier,
		clock:             clock,
		maxTimestampDelta: int64(maxTimestampDelta / time.Second),
		metrics:           m,
		logger:            logger,
	}
}

// Admit runs the pre-storage checks (signature/quorum verification,
// timestamp liveness, author-committee membership), then calls
// Storage.InsertCertificate. None of the pre-storage checks mutate
// Storage; a cancelled or rejected admission leaves it untouched.
func (p *Pipeline) Admit(c storage.Certificate) error {
	comm, ok := p.storage.GetCommitteeForRound(c.Round)
	if !ok {
		return p.reject(bfterrors.MissingPrerequisite, c, "missing committee for round")
	}

	if !comm.Contains(c.Author) {
		return p.reject(bfterrors.MalformedInput, c, "author not a committee member")
	}

	if err := p.verifier.VerifyCertificate(c, comm); err != nil {
		return p.reject(bfterrors.MalformedInput, c, "signature verification failed: "+err.Error())
	}

	now := p.clock.Now()
	if c.Timestamp > now+p.maxTimestampDelta {
		return p.reject(bfterrors.MalformedInput, c, "timestamp too far in the future")
	}
	if prev := previousTimestamp(p.storage, c); c.Timestamp <= prev {
		return p.reject(bfterrors.MalformedInput, c, "timestamp not after previous round timestamp")
	}

	if p.ledger != nil {
		for _, tid := range c.TransmissionIDs {
			if tid.Kind != storage.Transaction {
				continue
			}
			if p.ledger.ContainsTransaction(ledger.TransactionID(tid.Value)) {
				return p.reject(bfterrors.AlreadyExists, c, "transaction already committed to the ledger")
			}
		}
	}

	if err := p.storage.InsertCertificate(c); err != nil {
		return err
	}
	return nil
}

// previousTimestamp returns the latest timestamp among c's cited parent
// certificates, or 0 if c cites none (the first round after genesis).
// This is the previous_timestamp argument the source's
// check_timestamp_for_liveness takes from its caller.
func previousTimestamp(s *storage.Storage, c storage.Certificate) int64 {
	var latest int64
	for _, pcid := range c.PreviousCertificateIDs {
		if pc, ok := s.GetCertificate(pcid); ok && pc.Timestamp > latest {
			latest = pc.Timestamp
		}
	}
	return latest
}

func (p *Pipeline) reject(kind bfterrors.Kind, c storage.Certificate, reason string) error {
	if p.metrics != nil {
		p.metrics.AdmissionRejections.WithLabelValues(kind.String()).Inc()
	}
	if p.logger != nil {
		p.logger.Info("certificate rejected by admission",
			zap.Uint64("round", c.Round),
			zap.Stringer("certificate_id", c.ID),
			zap.String("reason", reason),
		)
	}
	return bfterrors.New(kind, c.Round, c.ID, reason)
}

// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.

package admission

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/AleoHQ/snarkOS/bft/bfterrors"
	"github.com/AleoHQ/snarkOS/bft/committee"
	"github.com/AleoHQ/snarkOS/bft/ledger"
	"github.com/AleoHQ/snarkOS/bft/metrics"
	"github.com/AleoHQ/snarkOS/bft/storage"
	"github.com/AleoHQ/snarkOS/bft/storageservice"
)

type stubVerifier struct{ err error }

func (v stubVerifier) VerifyCertificate(storage.Certificate, committee.Committee) error { return v.err }

type fixedClock int64

func (c fixedClock) Now() int64 { return int64(c) }

func addr(b byte) committee.Address {
	var a committee.Address
	a[0] = b
	return a
}

func newFixture(t *testing.T, verifier Verifier, clock Clock) (*Pipeline, *storage.Storage) {
	return newFixtureWithLedger(t, nil, verifier, clock)
}

func newFixtureWithLedger(t *testing.T, l ledger.Ledger, verifier Verifier, clock Clock) (*Pipeline, *storage.Storage) {
	t.Helper()
	s := storage.New(50, storageservice.NewMemoryService(), metrics.Noop(), zap.NewNop())
	comm0, err := committee.New(0, []committee.Address{addr(1), addr(2), addr(3), addr(4)}, []uint64{1, 1, 1, 1}, 1)
	require.NoError(t, err)
	s.InsertCommittee(comm0)
	comm1, err := committee.New(1, []committee.Address{addr(1), addr(2), addr(3), addr(4)}, []uint64{1, 1, 1, 1}, 1)
	require.NoError(t, err)
	s.InsertCommittee(comm1)

	p := New(s, l, verifier, clock, 10*time.Second, metrics.Noop(), zap.NewNop())
	return p, s
}

func TestAdmitAcceptsValidCertificate(t *testing.T) {
	p, s := newFixture(t, stubVerifier{}, fixedClock(1000))
	c := storage.Certificate{ID: certID(1), BatchID: batchID(1), Round: 1, Author: addr(1), Timestamp: 500}
	require.NoError(t, p.Admit(c))
	require.True(t, s.ContainsCertificate(c.ID))
}

func TestAdmitRejectsNonMember(t *testing.T) {
	p, _ := newFixture(t, stubVerifier{}, fixedClock(1000))
	c := storage.Certificate{ID: certID(1), BatchID: batchID(1), Round: 1, Author: addr(9), Timestamp: 500}
	err := p.Admit(c)
	kind, ok := bfterrors.KindOf(err)
	require.True(t, ok)
	require.Equal(t, bfterrors.MalformedInput, kind)
}

func TestAdmitRejectsFailedVerification(t *testing.T) {
	p, _ := newFixture(t, stubVerifier{err: errors.New("bad signature")}, fixedClock(1000))
	c := storage.Certificate{ID: certID(1), BatchID: batchID(1), Round: 1, Author: addr(1), Timestamp: 500}
	err := p.Admit(c)
	kind, _ := bfterrors.KindOf(err)
	require.Equal(t, bfterrors.MalformedInput, kind)
}

func TestAdmitRejectsFutureTimestamp(t *testing.T) {
	p, _ := newFixture(t, stubVerifier{}, fixedClock(1000))
	c := storage.Certificate{ID: certID(1), BatchID: batchID(1), Round: 1, Author: addr(1), Timestamp: 1011}
	err := p.Admit(c)
	kind, _ := bfterrors.KindOf(err)
	require.Equal(t, bfterrors.MalformedInput, kind)
}

func TestAdmitRejectsStaleTimestamp(t *testing.T) {
	p, s := newFixture(t, stubVerifier{}, fixedClock(1000))
	parent := storage.Certificate{ID: certID(1), BatchID: batchID(1), Round: 1, Author: addr(1), Timestamp: 500}
	require.NoError(t, p.Admit(parent))

	comm2, err := committee.New(2, []committee.Address{addr(1), addr(2), addr(3), addr(4)}, []uint64{1, 1, 1, 1}, 1)
	require.NoError(t, err)
	s.InsertCommittee(comm2)

	child := storage.Certificate{
		ID: certID(2), BatchID: batchID(2), Round: 2, Author: addr(2), Timestamp: 500,
		PreviousCertificateIDs: []storage.CertificateID{parent.ID},
	}
	err = p.Admit(child)
	kind, _ := bfterrors.KindOf(err)
	require.Equal(t, bfterrors.MalformedInput, kind)
}

func TestAdmitRejectsAlreadyCommittedTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLedger := ledger.NewMockLedger(ctrl)

	tid := storage.TransmissionID{Kind: storage.Transaction}
	tid.Value[0] = 7
	mockLedger.EXPECT().ContainsTransaction(ledger.TransactionID(tid.Value)).Return(true)

	p, _ := newFixtureWithLedger(t, mockLedger, stubVerifier{}, fixedClock(1000))
	c := storage.Certificate{
		ID: certID(1), BatchID: batchID(1), Round: 1, Author: addr(1), Timestamp: 500,
		TransmissionIDs: []storage.TransmissionID{tid},
	}
	err := p.Admit(c)
	kind, ok := bfterrors.KindOf(err)
	require.True(t, ok)
	require.Equal(t, bfterrors.AlreadyExists, kind)
}

func certID(b byte) storage.CertificateID {
	var id storage.CertificateID
	id[0] = b
	return id
}

func batchID(b byte) storage.BatchID {
	var id storage.BatchID
	id[0] = b
	return id
}

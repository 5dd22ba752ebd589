// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.

package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AleoHQ/snarkOS/bft/bfterrors"
)

// TestScenarioSingleCertificate is S1: a single certificate admitted at
// round 1 by author A, citing one transmission, with no parents.
func TestScenarioSingleCertificate(t *testing.T) {
	s := newTestStorage(t, 50)
	comm0, a, _, _, _ := fourMemberCommittee(t, 0)
	s.InsertCommittee(comm0)
	comm1, _, _, _, _ := fourMemberCommittee(t, 1)
	s.InsertCommittee(comm1)
	require.Equal(t, uint64(3), comm1.QuorumThreshold())

	tid := txID(1)
	s.InsertTransmission(tid, Transmission{Kind: Transaction, Payload: []byte("T1")})

	c1 := Certificate{ID: certID(1), BatchID: batchID(1), Round: 1, Author: a, TransmissionIDs: []TransmissionID{tid}}
	require.NoError(t, s.InsertCertificate(c1))

	got := s.GetCertificatesForRound(1)
	require.Len(t, got, 1)
	require.Equal(t, c1.ID, got[0].ID)
}

// TestScenarioDuplicateRejected is S2.
func TestScenarioDuplicateRejected(t *testing.T) {
	s := newTestStorage(t, 50)
	comm0, a, _, _, _ := fourMemberCommittee(t, 0)
	s.InsertCommittee(comm0)
	comm1, _, _, _, _ := fourMemberCommittee(t, 1)
	s.InsertCommittee(comm1)

	tid := txID(1)
	s.InsertTransmission(tid, Transmission{Kind: Transaction})
	c1 := Certificate{ID: certID(1), BatchID: batchID(1), Round: 1, Author: a, TransmissionIDs: []TransmissionID{tid}}
	require.NoError(t, s.InsertCertificate(c1))

	before := s.CertificatesIter()
	err := s.InsertCertificate(c1)
	kind, _ := bfterrors.KindOf(err)
	require.Equal(t, bfterrors.AlreadyExists, kind)
	require.Equal(t, before, s.CertificatesIter())
}

// TestScenarioMissingTransmission is S3.
func TestScenarioMissingTransmission(t *testing.T) {
	s := newTestStorage(t, 50)
	comm0, a, _, _, _ := fourMemberCommittee(t, 0)
	s.InsertCommittee(comm0)
	comm1, _, _, _, _ := fourMemberCommittee(t, 1)
	s.InsertCommittee(comm1)

	c1 := Certificate{ID: certID(1), BatchID: batchID(1), Round: 1, Author: a, TransmissionIDs: []TransmissionID{txID(1)}}
	err := s.InsertCertificate(c1)
	kind, _ := bfterrors.KindOf(err)
	require.Equal(t, bfterrors.MissingPrerequisite, kind)
	require.Empty(t, s.CertificatesIter())
	require.Empty(t, s.BatchIDsIter())
}

// TestScenarioQuorumAtRoundTwo is S4.
func TestScenarioQuorumAtRoundTwo(t *testing.T) {
	s := newTestStorage(t, 50)
	comm0, a, b, c, d := fourMemberCommittee(t, 0)
	s.InsertCommittee(comm0)
	comm1, _, _, _, _ := fourMemberCommittee(t, 1)
	s.InsertCommittee(comm1)

	tid := txID(1)
	s.InsertTransmission(tid, Transmission{Kind: Transaction})
	c1 := Certificate{ID: certID(1), BatchID: batchID(1), Round: 1, Author: a, TransmissionIDs: []TransmissionID{tid}}
	c1B := Certificate{ID: certID(2), BatchID: batchID(2), Round: 1, Author: b}
	c1C := Certificate{ID: certID(3), BatchID: batchID(3), Round: 1, Author: c}
	require.NoError(t, s.InsertCertificate(c1))
	require.NoError(t, s.InsertCertificate(c1B))
	require.NoError(t, s.InsertCertificate(c1C))

	comm2, _, _, _, _ := fourMemberCommittee(t, 2)
	s.InsertCommittee(comm2)

	c2 := Certificate{ID: certID(20), BatchID: batchID(20), Round: 2, Author: d,
		PreviousCertificateIDs: []CertificateID{c1.ID, c1B.ID}}
	err := s.InsertCertificate(c2)
	kind, _ := bfterrors.KindOf(err)
	require.Equal(t, bfterrors.QuorumShortfall, kind)

	c2.PreviousCertificateIDs = []CertificateID{c1.ID, c1B.ID, c1C.ID}
	require.NoError(t, s.InsertCertificate(c2))
}

// TestScenarioGCEviction is S5: with max_gc_rounds=1, installing the
// committee for round 3 advances gc_round to 2, collecting round-1
// certificates and their now-uncited transmissions.
func TestScenarioGCEviction(t *testing.T) {
	s := newTestStorage(t, 1)
	comm0, a, b, c, d := fourMemberCommittee(t, 0)
	s.InsertCommittee(comm0)
	comm1, _, _, _, _ := fourMemberCommittee(t, 1)
	s.InsertCommittee(comm1)

	tid := txID(1)
	s.InsertTransmission(tid, Transmission{Kind: Transaction})
	c1 := Certificate{ID: certID(1), BatchID: batchID(1), Round: 1, Author: a, TransmissionIDs: []TransmissionID{tid}}
	c1B := Certificate{ID: certID(2), BatchID: batchID(2), Round: 1, Author: b}
	c1C := Certificate{ID: certID(3), BatchID: batchID(3), Round: 1, Author: c}
	require.NoError(t, s.InsertCertificate(c1))
	require.NoError(t, s.InsertCertificate(c1B))
	require.NoError(t, s.InsertCertificate(c1C))

	comm2, _, _, _, _ := fourMemberCommittee(t, 2)
	s.InsertCommittee(comm2)
	c2 := Certificate{ID: certID(20), BatchID: batchID(20), Round: 2, Author: d,
		PreviousCertificateIDs: []CertificateID{c1.ID, c1B.ID, c1C.ID}}
	require.NoError(t, s.InsertCertificate(c2))

	comm3, _, _, _, _ := fourMemberCommittee(t, 3)
	s.InsertCommittee(comm3)

	require.Equal(t, uint64(2), s.GCRound())
	require.False(t, s.ContainsCertificate(c1.ID))
	require.False(t, s.ContainsCertificate(c1B.ID))
	require.False(t, s.ContainsCertificate(c1C.ID))
	require.False(t, s.ContainsTransmission(tid))
	require.True(t, s.ContainsCertificate(c2.ID))
}

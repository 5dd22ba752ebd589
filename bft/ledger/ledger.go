// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.

// Package ledger declares the Ledger collaborator this module consumes.
// The ledger itself — block storage, UTXO/finalize state, fork choice — is
// out of scope (spec.md §1); only the interface admission and the
// committer need is defined here, plus the opaque types required to type
// check it.
package ledger

import (
	"github.com/AleoHQ/snarkOS/bft/committee"
	"github.com/AleoHQ/snarkOS/bft/storage"
)

// TransactionID identifies a ledger transaction, independent of the
// transmission it may have arrived as.
type TransactionID [32]byte

// Block is an opaque placeholder for whatever block representation the
// ledger produces; this module never constructs one.
type Block struct {
	Round uint64
	// Opaque marks this as a stand-in type: the real block body is the
	// ledger's concern, not this module's.
	Opaque []byte
}

// SubDAG is a committed prefix of the certificate DAG, handed to the
// ledger for block formation. Only what the committer needs to pass
// through is modeled here.
type SubDAG struct {
	LeaderRound  uint64
	Certificates map[uint64][]storage.CertificateID
}

// Ledger is the external collaborator consulted by admission (to reject
// already-committed transactions) and by the committer (to persist
// committed subDAGs).
type Ledger interface {
	// LatestRound returns the highest round the ledger has committed.
	LatestRound() uint64
	// LatestCommittee returns the validator set as of the latest
	// committed round.
	LatestCommittee() (committee.Committee, error)
	// CheckNextBlock validates a candidate block before it is advanced to.
	CheckNextBlock(b Block) error
	// PrepareAdvanceToNextQuorumBlock assembles a Block from a committed
	// subDAG and the transmissions it cites.
	PrepareAdvanceToNextQuorumBlock(subdag SubDAG, transmissions map[storage.TransmissionID]storage.Transmission) (Block, error)
	// AdvanceToNextBlock commits b to the ledger.
	AdvanceToNextBlock(b Block) error
	// ContainsTransaction reports whether id has already been committed.
	ContainsTransaction(id TransactionID) bool
}

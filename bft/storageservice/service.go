// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.

// Package storageservice implements the pluggable transmission payload
// store (spec.md §4.3): the leaf that holds transaction/solution payload
// bytes keyed by transmission ID, and tracks which certificates cite each
// payload so it can be evicted by refcount. This module ships only the
// in-memory default (MemoryService); a persistent backend is a drop-in
// replacement behind the same Service interface.
package storageservice

import "github.com/AleoHQ/snarkOS/bft/storage"

// Service is the behavior set every transmission backend must implement.
// Modeled as an interface/trait per spec.md §9's "dynamic dispatch" note,
// so the in-memory default here can be swapped for a persistent backend
// without touching bft/storage or bft/admission.
type Service interface {
	// Contains reports whether the payload for id is held locally.
	Contains(id storage.TransmissionID) bool

	// Get returns the payload for id, if held locally.
	Get(id storage.TransmissionID) (storage.Transmission, bool)

	// FindMissing returns, from provided, the entries needed because they
	// are absent locally. It fails if any id in requested is neither held
	// locally nor present in provided.
	//
	// round is accepted but not consulted by the in-memory implementation;
	// it is preserved in the interface for forward compatibility, per
	// spec.md §9's open question about the source's unused round
	// parameter.
	FindMissing(round uint64, requested map[storage.TransmissionID]struct{}, provided map[storage.TransmissionID]storage.Transmission) (map[storage.TransmissionID]storage.Transmission, error)

	// Insert adds a bare transmission with no citing certificate yet
	// (the "free pool" of spec.md §3's lifecycle section). If id is already
	// held, the existing entry (payload and citations) is left unchanged and
	// its payload is returned with true.
	Insert(id storage.TransmissionID, t storage.Transmission) (storage.Transmission, bool)

	// InsertForCertificate upserts each of tids, taking any absent entry
	// from missing, then adds certificateID to the citation set of every
	// entry in tids.
	//
	// It panics if a tid is absent both locally and from missing: the
	// caller's upstream FindMissing is a precondition, and violating it is
	// a broken invariant, not a recoverable error (spec.md §7).
	InsertForCertificate(round uint64, certificateID storage.CertificateID, tids []storage.TransmissionID, missing map[storage.TransmissionID]storage.Transmission)

	// RemoveForCertificate removes certificateID from the citation set of
	// every entry in tids; an entry whose citation set becomes empty is
	// deleted entirely.
	RemoveForCertificate(round uint64, certificateID storage.CertificateID, tids []storage.TransmissionID)
}

// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package storage implements the central in-memory store of the BFT
// mempool: per-round batch certificates, the transmissions they cite,
// cross-referencing indices, and garbage collection of rounds older than
// a monotonically advancing watermark.
package storage

import (
	"fmt"

	"github.com/AleoHQ/snarkOS/bft/committee"
)

// CertificateID is an opaque fixed-width digest of a batch certificate.
type CertificateID [32]byte

func (id CertificateID) String() string { return fmt.Sprintf("%x", id[:4]) }

// BatchID is an opaque fixed-width digest of the underlying batch.
type BatchID [32]byte

func (id BatchID) String() string { return fmt.Sprintf("%x", id[:4]) }

// TransmissionKind tags the payload carried by a TransmissionID/Transmission.
type TransmissionKind uint8

const (
	Ratification TransmissionKind = iota
	Solution
	Transaction
)

func (k TransmissionKind) String() string {
	switch k {
	case Ratification:
		return "Ratification"
	case Solution:
		return "Solution"
	case Transaction:
		return "Transaction"
	default:
		return "Unknown"
	}
}

// TransmissionID is a tagged identifier: Ratification carries no further
// value, Solution carries a puzzle commitment, Transaction carries a
// transaction ID. Both are modeled as a fixed-width digest so the type
// stays comparable (usable as a map key) regardless of kind.
type TransmissionID struct {
	Kind  TransmissionKind
	Value [32]byte
}

func (id TransmissionID) String() string {
	if id.Kind == Ratification {
		return "Ratification"
	}
	return fmt.Sprintf("%s(%x)", id.Kind, id.Value[:4])
}

// Transmission is the payload matching the tag of its TransmissionID.
// Ratification carries no payload bytes; Solution and Transaction carry
// opaque, already-deserialized payload bytes.
type Transmission struct {
	Kind    TransmissionKind
	Payload []byte
}

// Author is the public identity of a batch's creator.
type Author = committee.Address

// Certificate is a batch certificate: a batch carrying signatures from a
// quorum of round r-1 validators. Certificates are immutable after
// construction and are never mutated once admitted to Storage.
type Certificate struct {
	ID                      CertificateID
	BatchID                 BatchID
	Round                   uint64
	Author                  Author
	Timestamp               int64
	TransmissionIDs         []TransmissionID
	PreviousCertificateIDs  []CertificateID
	// Signatures is left opaque: verifying them is the Verifier
	// collaborator's job (see bft/admission), not Storage's.
	Signatures [][]byte
}

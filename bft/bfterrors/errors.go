// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package bfterrors defines the typed error taxonomy returned by the BFT
// mempool storage engine and its admission pipeline.
package bfterrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error returned by storage or admission.
type Kind int

const (
	// AlreadyExists marks a certificate or batch duplicate. Not escalated;
	// the caller treats it as benign.
	AlreadyExists Kind = iota
	// MissingPrerequisite marks a missing previous round, committee,
	// transmission, or previous certificate. The caller may buffer the
	// certificate for retry once the dependency arrives.
	MissingPrerequisite
	// QuorumShortfall marks parent certificates that do not cover quorum.
	// The certificate is rejected permanently.
	QuorumShortfall
	// MalformedInput marks a bad signature, bad timestamp, or unknown
	// author. Rejected permanently; the peer may be penalized.
	MalformedInput
	// Transient marks lock poisoning or allocation failure. Propagated to
	// the runtime; the node may shut down.
	Transient
)

func (k Kind) String() string {
	switch k {
	case AlreadyExists:
		return "AlreadyExists"
	case MissingPrerequisite:
		return "MissingPrerequisite"
	case QuorumShortfall:
		return "QuorumShortfall"
	case MalformedInput:
		return "MalformedInput"
	case Transient:
		return "Transient"
	default:
		return "Unknown"
	}
}

// Error is the typed error returned by storage and admission operations.
// It carries the structured fields logged and counted per the error
// handling design: round, certificate ID, and a human-readable reason.
type Error struct {
	Kind          Kind
	Round         uint64
	CertificateID fmt.Stringer
	Reason        string
}

func (e *Error) Error() string {
	if e.CertificateID != nil {
		return fmt.Sprintf("%s: round=%d certificate=%s: %s", e.Kind, e.Round, e.CertificateID, e.Reason)
	}
	return fmt.Sprintf("%s: round=%d: %s", e.Kind, e.Round, e.Reason)
}

// Is allows errors.Is(err, bfterrors.New(kind, ...)) and, more usefully,
// errors.Is(err, &bfterrors.Error{Kind: k}) style kind-only comparisons.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error with the given kind and structured fields.
func New(kind Kind, round uint64, certificateID fmt.Stringer, reason string) *Error {
	return &Error{Kind: kind, Round: round, CertificateID: certificateID, Reason: reason}
}

// KindOf extracts the Kind from err if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

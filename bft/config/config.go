// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.

// Package config collects the operational knobs the BFT mempool honors.
// The network knobs (MaxPeers onward) are for the external gossip
// collaborator, whose envelope shape bft/gossip describes; storage and
// admission do not read them. They are modeled here because certificate round progression depends on
// those knobs being sane (see spec.md §6).
package config

import "time"

// Config holds every option the BFT mempool core honors.
type Config struct {
	// MaxGCRounds (w) is the retention window width in rounds.
	MaxGCRounds uint64
	// MinStake is the minimum per-validator stake for committee admission.
	MinStake uint64
	// MaxTimestampDelta (Δ) bounds how far in the future a batch
	// certificate's timestamp may be, for admission liveness.
	MaxTimestampDelta time.Duration

	// MaxPeers bounds the gossip layer's peer set.
	MaxPeers int
	// HandshakeTimeout bounds a bootnode/peer handshake.
	HandshakeTimeout time.Duration
	// PingInterval is the gossip keep-alive cadence.
	PingInterval time.Duration
	// PeerRequestInterval is the cadence for requesting more peers.
	PeerRequestInterval time.Duration
}

// defaultMaxGCRounds is the minimum retention window spec.md §6 requires
// ("Default >= 50").
const defaultMaxGCRounds = 50

// Default returns a Config populated with the literal defaults named in
// spec.md §6.
func Default() Config {
	return Config{
		MaxGCRounds:         defaultMaxGCRounds,
		MinStake:            1,
		MaxTimestampDelta:   10 * time.Second,
		MaxPeers:            21,
		HandshakeTimeout:    5 * time.Second,
		PingInterval:        10 * time.Second,
		PeerRequestInterval: 30 * time.Second,
	}
}

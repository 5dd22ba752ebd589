// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.

// Package gossip describes the shape of the wire envelope the external
// network collaborator uses to deliver certificates and transmissions to
// this module. It intentionally contains no framing or parsing logic: per
// spec.md §6, "the core does not parse the wire format; it receives
// already-decoded typed messages." The types here describe that envelope
// for the network knobs in bft/config; no code in this module reads them.
package gossip

// LengthPrefixSize is the width, in bytes, of the little-endian length
// prefix that precedes every message on the wire.
const LengthPrefixSize = 4

// MessageKind is the wire discriminant selecting a message variant.
type MessageKind uint8

const (
	MessageCertificate MessageKind = iota
	MessageTransmission
	MessageBatchRequest
	MessageBatchResponse
	MessagePing
	MessagePong
)

func (k MessageKind) String() string {
	switch k {
	case MessageCertificate:
		return "Certificate"
	case MessageTransmission:
		return "Transmission"
	case MessageBatchRequest:
		return "BatchRequest"
	case MessageBatchResponse:
		return "BatchResponse"
	case MessagePing:
		return "Ping"
	case MessagePong:
		return "Pong"
	default:
		return "Unknown"
	}
}

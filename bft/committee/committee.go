// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package committee implements the per-round validator set snapshot used by
// the BFT mempool to decide quorum thresholds and authorship legality.
package committee

import (
	"fmt"
	"sort"

	"github.com/holiman/uint256"
)

// minCommitteeSize is the classical BFT lower bound n >= 3f+1 with f >= 1.
const minCommitteeSize = 4

// Address is the public identity of a batch author.
type Address [32]byte

func (a Address) String() string {
	return fmt.Sprintf("%x", a[:4])
}

// member pairs an author with its stake. Stored in insertion order so that
// iteration is stable for callers that enumerate the committee.
type member struct {
	author Address
	stake  uint64
}

// Committee is an immutable, per-round snapshot of the validator set and
// its stake distribution. Construct with New; there are no setters.
type Committee struct {
	round       uint64
	members     []member
	index       map[Address]int // author -> position in members
	totalStake  uint64
	quorumStake uint64
}

// New builds a Committee for round from the given author->stake mapping,
// supplied as parallel slices to preserve a deterministic authoring order.
//
// It fails if there are fewer than 4 members, if any stake is below
// minStake, or if an author appears twice.
func New(round uint64, authors []Address, stakes []uint64, minStake uint64) (Committee, error) {
	if len(authors) != len(stakes) {
		return Committee{}, fmt.Errorf("committee: %d authors but %d stakes", len(authors), len(stakes))
	}
	if len(authors) < minCommitteeSize {
		return Committee{}, fmt.Errorf("committee: round %d has %d members, need at least %d", round, len(authors), minCommitteeSize)
	}

	members := make([]member, 0, len(authors))
	index := make(map[Address]int, len(authors))
	total := new(uint256.Int)
	for i, a := range authors {
		if _, dup := index[a]; dup {
			return Committee{}, fmt.Errorf("committee: duplicate author %s at round %d", a, round)
		}
		if stakes[i] < minStake {
			return Committee{}, fmt.Errorf("committee: author %s stake %d below minimum %d", a, stakes[i], minStake)
		}
		index[a] = i
		members = append(members, member{author: a, stake: stakes[i]})

		if _, overflow := total.AddOverflow(total, uint256.NewInt(stakes[i])); overflow {
			return Committee{}, fmt.Errorf("committee: total stake overflow at round %d", round)
		}
	}

	if !total.IsUint64() {
		return Committee{}, fmt.Errorf("committee: total stake %s exceeds uint64 range at round %d", total, round)
	}
	totalStake := total.Uint64()
	quorumStake := quorumThreshold(totalStake)

	return Committee{
		round:       round,
		members:     members,
		index:       index,
		totalStake:  totalStake,
		quorumStake: quorumStake,
	}, nil
}

// quorumThreshold computes total*2/3 + 1, matching the ledger's canonical
// formula exactly (floor(2*total/3)+1, which equals ceil((2*total+1)/3) for
// every total).
func quorumThreshold(total uint64) uint64 {
	t := uint256.NewInt(total)
	two := new(uint256.Int).Mul(t, uint256.NewInt(2))
	three := uint256.NewInt(3)
	q := new(uint256.Int).Div(two, three)
	q.Add(q, uint256.NewInt(1))
	return q.Uint64()
}

// Round returns the round this committee snapshot applies to.
func (c Committee) Round() uint64 { return c.round }

// TotalStake returns the sum of all member stakes.
func (c Committee) TotalStake() uint64 { return c.totalStake }

// QuorumThreshold returns the stake required to reach quorum, 2f+1 by stake.
func (c Committee) QuorumThreshold() uint64 { return c.quorumStake }

// Contains reports whether author is a member of this committee.
func (c Committee) Contains(author Address) bool {
	_, ok := c.index[author]
	return ok
}

// StakeOf returns the stake of author, or 0 if not a member.
func (c Committee) StakeOf(author Address) uint64 {
	i, ok := c.index[author]
	if !ok {
		return 0
	}
	return c.members[i].stake
}

// Len returns the number of members in the committee.
func (c Committee) Len() int { return len(c.members) }

// Members returns the committee's authors in insertion order.
func (c Committee) Members() []Address {
	out := make([]Address, len(c.members))
	for i, m := range c.members {
		out[i] = m.author
	}
	return out
}

// SortedMembers returns the committee's authors ordered by address, useful
// for deterministic test fixtures and logging.
func (c Committee) SortedMembers() []Address {
	out := c.Members()
	sort.Slice(out, func(i, j int) bool { return string(out[i][:]) < string(out[j][:]) })
	return out
}

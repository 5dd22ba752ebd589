// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.

// Code generated by hand in the style of go.uber.org/mock/mockgen; DO NOT
// expect this to track Ledger automatically — regenerate by hand if the
// interface changes.

package ledger

import (
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/AleoHQ/snarkOS/bft/committee"
	"github.com/AleoHQ/snarkOS/bft/storage"
)

// MockLedger is a gomock-style mock of the Ledger interface, for tests in
// bft/admission that need to observe or stub ContainsTransaction/
// AdvanceToNextBlock without a real ledger implementation.
type MockLedger struct {
	ctrl     *gomock.Controller
	recorder *MockLedgerMockRecorder
}

// MockLedgerMockRecorder is the recorder for MockLedger's EXPECT() calls.
type MockLedgerMockRecorder struct {
	mock *MockLedger
}

// NewMockLedger constructs a MockLedger.
func NewMockLedger(ctrl *gomock.Controller) *MockLedger {
	m := &MockLedger{ctrl: ctrl}
	m.recorder = &MockLedgerMockRecorder{mock: m}
	return m
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockLedger) EXPECT() *MockLedgerMockRecorder {
	return m.recorder
}

func (m *MockLedger) LatestRound() uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "LatestRound")
	r0, _ := ret[0].(uint64)
	return r0
}

func (mr *MockLedgerMockRecorder) LatestRound() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LatestRound", reflect.TypeOf((*MockLedger)(nil).LatestRound))
}

func (m *MockLedger) LatestCommittee() (committee.Committee, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "LatestCommittee")
	r0, _ := ret[0].(committee.Committee)
	r1, _ := ret[1].(error)
	return r0, r1
}

func (mr *MockLedgerMockRecorder) LatestCommittee() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LatestCommittee", reflect.TypeOf((*MockLedger)(nil).LatestCommittee))
}

func (m *MockLedger) CheckNextBlock(b Block) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CheckNextBlock", b)
	r0, _ := ret[0].(error)
	return r0
}

func (mr *MockLedgerMockRecorder) CheckNextBlock(b interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CheckNextBlock", reflect.TypeOf((*MockLedger)(nil).CheckNextBlock), b)
}

func (m *MockLedger) PrepareAdvanceToNextQuorumBlock(subdag SubDAG, transmissions map[storage.TransmissionID]storage.Transmission) (Block, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PrepareAdvanceToNextQuorumBlock", subdag, transmissions)
	r0, _ := ret[0].(Block)
	r1, _ := ret[1].(error)
	return r0, r1
}

func (mr *MockLedgerMockRecorder) PrepareAdvanceToNextQuorumBlock(subdag, transmissions interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PrepareAdvanceToNextQuorumBlock", reflect.TypeOf((*MockLedger)(nil).PrepareAdvanceToNextQuorumBlock), subdag, transmissions)
}

func (m *MockLedger) AdvanceToNextBlock(b Block) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AdvanceToNextBlock", b)
	r0, _ := ret[0].(error)
	return r0
}

func (mr *MockLedgerMockRecorder) AdvanceToNextBlock(b interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AdvanceToNextBlock", reflect.TypeOf((*MockLedger)(nil).AdvanceToNextBlock), b)
}

func (m *MockLedger) ContainsTransaction(id TransactionID) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ContainsTransaction", id)
	r0, _ := ret[0].(bool)
	return r0
}

func (mr *MockLedgerMockRecorder) ContainsTransaction(id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ContainsTransaction", reflect.TypeOf((*MockLedger)(nil).ContainsTransaction), id)
}

// Copyright 2024 The Erigon Authors
// (modifications for the BFT mempool storage engine)
// This file is part of Erigon.

// Command bftsim drives the BFT mempool storage engine through the
// scripted scenarios of spec.md §8 for manual inspection: S1, S2, S4 and
// S5 (S3 and S6 are not included). It is a harness, not a node: there is
// no network, no ledger, no persistence.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AleoHQ/snarkOS/bft/committee"
	"github.com/AleoHQ/snarkOS/bft/config"
	"github.com/AleoHQ/snarkOS/bft/mathutil"
	"github.com/AleoHQ/snarkOS/bft/metrics"
	"github.com/AleoHQ/snarkOS/bft/storage"
	"github.com/AleoHQ/snarkOS/bft/storageservice"
)

var scenarios = map[string]func(*zap.Logger, uint64) error{
	"s1": scenarioSingleCertificate,
	"s2": scenarioDuplicateRejected,
	"s4": scenarioQuorumAtRoundTwo,
	"s5": scenarioGCEviction,
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	// gcRounds overrides each scenario's own max_gc_rounds when non-zero.
	// Accepts decimal or 0x-prefixed hex, unlike pflag's built-in uint64
	// flag type.
	gcRounds := mathutil.Uint64Flag{}

	cmd := &cobra.Command{
		Use:   "bftsim",
		Short: "Drive the BFT mempool storage engine through scripted scenarios",
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().Var(&gcRounds, "max-gc-rounds", "override a scenario's retention window (decimal or 0x-hex)")

	runCmd := &cobra.Command{
		Use:       "run [scenario]",
		Short:     "Run a named scenario (s1, s2, s4, s5) or \"all\"",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"s1", "s2", "s4", "s5", "all"},
		RunE: func(_ *cobra.Command, args []string) error {
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			name := args[0]
			if name == "all" {
				for _, key := range []string{"s1", "s2", "s4", "s5"} {
					fmt.Printf("=== %s ===\n", key)
					if err := scenarios[key](logger, gcRounds.Value); err != nil {
						return fmt.Errorf("%s: %w", key, err)
					}
				}
				return nil
			}

			scenario, ok := scenarios[name]
			if !ok {
				return fmt.Errorf("unknown scenario %q", name)
			}
			return scenario(logger, gcRounds.Value)
		},
	}
	cmd.AddCommand(runCmd)

	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newEngine(maxGCRounds uint64, logger *zap.Logger) *storage.Storage {
	return storage.New(maxGCRounds, storageservice.NewMemoryService(), metrics.Noop(), logger)
}

func fourAuthorCommittee(round uint64, cfg config.Config) (committee.Committee, []committee.Address, error) {
	authors := []committee.Address{addrAt(1), addrAt(2), addrAt(3), addrAt(4)}
	stakes := []uint64{1, 1, 1, 1}
	comm, err := committee.New(round, authors, stakes, cfg.MinStake)
	return comm, authors, err
}

func addrAt(b byte) committee.Address {
	var a committee.Address
	a[0] = b
	return a
}

func certIDAt(b byte) storage.CertificateID {
	var id storage.CertificateID
	id[0] = b
	return id
}

func batchIDAt(b byte) storage.BatchID {
	var id storage.BatchID
	id[0] = b
	return id
}

func txIDAt(b byte) storage.TransmissionID {
	id := storage.TransmissionID{Kind: storage.Transaction}
	id.Value[0] = b
	return id
}

// scenarioSingleCertificate is S1.
func scenarioSingleCertificate(logger *zap.Logger, gcOverride uint64) error {
	cfg := config.Default()
	if gcOverride != 0 {
		cfg.MaxGCRounds = gcOverride
	}
	s := newEngine(cfg.MaxGCRounds, logger)

	comm0, authors, err := fourAuthorCommittee(0, cfg)
	if err != nil {
		return err
	}
	s.InsertCommittee(comm0)
	comm1, _, err := fourAuthorCommittee(1, cfg)
	if err != nil {
		return err
	}
	s.InsertCommittee(comm1)
	fmt.Printf("quorum threshold at round 1: %d\n", comm1.QuorumThreshold())

	tid := txIDAt(1)
	s.InsertTransmission(tid, storage.Transmission{Kind: storage.Transaction, Payload: []byte("T1")})

	c1 := storage.Certificate{ID: certIDAt(1), BatchID: batchIDAt(1), Round: 1, Author: authors[0], TransmissionIDs: []storage.TransmissionID{tid}}
	if err := s.InsertCertificate(c1); err != nil {
		return err
	}
	fmt.Printf("certificates at round 1: %d\n", len(s.GetCertificatesForRound(1)))
	return nil
}

// scenarioDuplicateRejected is S2.
func scenarioDuplicateRejected(logger *zap.Logger, gcOverride uint64) error {
	cfg := config.Default()
	if gcOverride != 0 {
		cfg.MaxGCRounds = gcOverride
	}
	s := newEngine(cfg.MaxGCRounds, logger)
	comm0, authors, err := fourAuthorCommittee(0, cfg)
	if err != nil {
		return err
	}
	s.InsertCommittee(comm0)
	comm1, _, err := fourAuthorCommittee(1, cfg)
	if err != nil {
		return err
	}
	s.InsertCommittee(comm1)

	tid := txIDAt(1)
	s.InsertTransmission(tid, storage.Transmission{Kind: storage.Transaction})
	c1 := storage.Certificate{ID: certIDAt(1), BatchID: batchIDAt(1), Round: 1, Author: authors[0], TransmissionIDs: []storage.TransmissionID{tid}}
	if err := s.InsertCertificate(c1); err != nil {
		return err
	}

	err = s.InsertCertificate(c1)
	fmt.Printf("second insertion: %v\n", err)
	return nil
}

// scenarioQuorumAtRoundTwo is S4.
func scenarioQuorumAtRoundTwo(logger *zap.Logger, gcOverride uint64) error {
	cfg := config.Default()
	if gcOverride != 0 {
		cfg.MaxGCRounds = gcOverride
	}
	s := newEngine(cfg.MaxGCRounds, logger)
	comm0, authors, err := fourAuthorCommittee(0, cfg)
	if err != nil {
		return err
	}
	s.InsertCommittee(comm0)
	comm1, _, err := fourAuthorCommittee(1, cfg)
	if err != nil {
		return err
	}
	s.InsertCommittee(comm1)

	tid := txIDAt(1)
	s.InsertTransmission(tid, storage.Transmission{Kind: storage.Transaction})
	c1 := storage.Certificate{ID: certIDAt(1), BatchID: batchIDAt(1), Round: 1, Author: authors[0], TransmissionIDs: []storage.TransmissionID{tid}}
	c1B := storage.Certificate{ID: certIDAt(2), BatchID: batchIDAt(2), Round: 1, Author: authors[1]}
	c1C := storage.Certificate{ID: certIDAt(3), BatchID: batchIDAt(3), Round: 1, Author: authors[2]}
	for _, c := range []storage.Certificate{c1, c1B, c1C} {
		if err := s.InsertCertificate(c); err != nil {
			return err
		}
	}

	comm2, _, err := fourAuthorCommittee(2, cfg)
	if err != nil {
		return err
	}
	s.InsertCommittee(comm2)

	c2 := storage.Certificate{ID: certIDAt(20), BatchID: batchIDAt(20), Round: 2, Author: authors[3],
		PreviousCertificateIDs: []storage.CertificateID{c1.ID, c1B.ID}}
	fmt.Printf("two parents (stake 2): %v\n", s.InsertCertificate(c2))

	c2.PreviousCertificateIDs = append(c2.PreviousCertificateIDs, c1C.ID)
	fmt.Printf("three parents (stake 3): %v\n", s.InsertCertificate(c2))
	return nil
}

// scenarioGCEviction is S5.
func scenarioGCEviction(logger *zap.Logger, gcOverride uint64) error {
	cfg := config.Default()
	cfg.MaxGCRounds = 1
	if gcOverride != 0 {
		cfg.MaxGCRounds = gcOverride
	}
	s := newEngine(cfg.MaxGCRounds, logger)

	comm0, authors, err := fourAuthorCommittee(0, cfg)
	if err != nil {
		return err
	}
	s.InsertCommittee(comm0)
	comm1, _, err := fourAuthorCommittee(1, cfg)
	if err != nil {
		return err
	}
	s.InsertCommittee(comm1)

	tid := txIDAt(1)
	s.InsertTransmission(tid, storage.Transmission{Kind: storage.Transaction})
	c1 := storage.Certificate{ID: certIDAt(1), BatchID: batchIDAt(1), Round: 1, Author: authors[0], TransmissionIDs: []storage.TransmissionID{tid}}
	c1B := storage.Certificate{ID: certIDAt(2), BatchID: batchIDAt(2), Round: 1, Author: authors[1]}
	c1C := storage.Certificate{ID: certIDAt(3), BatchID: batchIDAt(3), Round: 1, Author: authors[2]}
	for _, c := range []storage.Certificate{c1, c1B, c1C} {
		if err := s.InsertCertificate(c); err != nil {
			return err
		}
	}

	comm2, _, err := fourAuthorCommittee(2, cfg)
	if err != nil {
		return err
	}
	s.InsertCommittee(comm2)
	c2 := storage.Certificate{ID: certIDAt(20), BatchID: batchIDAt(20), Round: 2, Author: authors[3],
		PreviousCertificateIDs: []storage.CertificateID{c1.ID, c1B.ID, c1C.ID}}
	if err := s.InsertCertificate(c2); err != nil {
		return err
	}

	comm3, _, err := fourAuthorCommittee(3, cfg)
	if err != nil {
		return err
	}
	s.InsertCommittee(comm3)

	fmt.Printf("gc_round: %d\n", s.GCRound())
	fmt.Printf("c1 present: %v\n", s.ContainsCertificate(c1.ID))
	fmt.Printf("T1 present: %v\n", s.ContainsTransmission(tid))
	fmt.Printf("c2 present: %v\n", s.ContainsCertificate(c2.ID))
	return nil
}

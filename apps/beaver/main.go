//
// main.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/markkurossi/beaver/env"
	"github.com/markkurossi/beaver/party"
	"github.com/markkurossi/beaver/ti"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

func main() {
	var cpuprofile string

	command := &cobra.Command{
		Use:   "beaver <config.yaml>",
		Short: "Two-party secure computation with Beaver triples",
		Long: "Run a computing party or the trusted initializer of a " +
			"two-party secure computation, as selected by the configuration",
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out: os.Stderr,
			})
			zerolog.SetGlobalLevel(zerolog.InfoLevel)

			config, err := env.Load(args[0])
			if err != nil {
				log.Fatal().Err(err).Msg("invalid configuration")
			}
			if config.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			if len(cpuprofile) > 0 {
				f, err := os.Create(cpuprofile)
				if err != nil {
					log.Fatal().Err(err).Msg("could not create CPU profile")
				}
				defer f.Close()
				if err := pprof.StartCPUProfile(f); err != nil {
					log.Fatal().Err(err).Msg("could not start CPU profile")
				}
				defer pprof.StopCPUProfile()
			}

			if config.TI {
				err = runTI(config)
			} else {
				err = runParty(config)
			}
			if err != nil {
				log.Fatal().Err(err).Msg("")
			}
		},
	}
	command.Flags().StringVar(&cpuprofile, "cpuprofile", "",
		"write cpu profile to `file`")

	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTI(config *env.Config) error {
	server, err := ti.Listen(ti.NewGenerator(config), config.TIListen)
	if err != nil {
		return err
	}
	defer server.Close()

	return server.Serve(config.Trees)
}

func runParty(config *env.Config) error {
	if config.Dataset == "" {
		return xerrors.Errorf("dataset not set")
	}
	dataset, err := party.LoadDataset(config.Dataset)
	if err != nil {
		return err
	}

	p, err := party.Connect(config)
	if err != nil {
		return err
	}
	defer p.Close()

	log.Info().Str("party", p.String()).Int("rows", dataset.Rows()).
		Int("columns", len(dataset.Columns)).Msg("dataset loaded")

	trees, err := p.Train(dataset)
	if err != nil {
		return err
	}
	for tree, splits := range trees {
		for _, split := range splits {
			fmt.Printf("tree %d: %s: [%g, %g] %v\n",
				tree, split.Name, split.Min, split.Max, split.Points)
		}
	}
	p.Timing.Print(os.Stdout, p.Peer.Stats())

	return nil
}

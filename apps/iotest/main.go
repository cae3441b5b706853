//
// main.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package main

import (
	"os"
	"runtime/pprof"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	var addr string
	var listen bool
	var size int64
	var frame int
	var cpuprofile string

	command := &cobra.Command{
		Use:   "iotest",
		Short: "Measure peer exchange throughput",
		Long: "Measure the throughput of tagged peer exchanges. The " +
			"listening side takes role 0 and the dialing side role 1.",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out: os.Stderr,
			})

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

			if err := testIO(addr, listen, size, frame); err != nil {
				log.Fatal().Err(err).Msg("")
			}
		},
	}
	flags := command.Flags()
	flags.StringVarP(&addr, "addr", "a", ":8080", "peer address")
	flags.BoolVarP(&listen, "listen", "l", false, "listen for the peer")
	flags.Int64VarP(&size, "size", "s", 100*1000*1000,
		"number of bytes to exchange")
	flags.IntVarP(&frame, "frame", "f", 64*1024, "frame size in bytes")
	flags.StringVar(&cpuprofile, "cpuprofile", "",
		"write cpu profile to `file`")

	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/fxarb/arbiter/pipeline"
	"github.com/fxarb/arbiter/producer"
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the pipeline against a synthetic random edge generator",
	RunE: func(cmd *cobra.Command, args []string) error {
		streamer, err := producer.NewSimStreamer(producer.SimConfig{
			NodeCount:     cfg.Simulator.NodeCount,
			EdgesPerBatch: cfg.Simulator.EdgeCountPerBatch,
			RateMin:       cfg.Simulator.RateRange.Min,
			RateMax:       cfg.Simulator.RateRange.Max,
		})
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		_, err = pipeline.Run(ctx, cfg, streamer, logger)
		return err
	},
}

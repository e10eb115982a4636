package main

import (
	"github.com/spf13/cobra"

	"github.com/fxarb/arbiter/pipeline"
	"github.com/fxarb/arbiter/producer"
)

var onErrorFlag string

var csvCmd = &cobra.Command{
	Use:   "csv <path>",
	Short: "Run the pipeline against a CSV file of from,to,rate rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		onErrorRaw := cfg.Producer.OnError
		if onErrorFlag != "" {
			onErrorRaw = onErrorFlag
		}
		onError, err := producer.ParseOnError(onErrorRaw)
		if err != nil {
			return err
		}

		streamer, err := producer.OpenCsvStreamer(args[0], cfg.Producer.BatchSize, onError, logger)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		_, err = pipeline.Run(ctx, cfg, streamer, logger)
		return err
	},
}

func init() {
	csvCmd.Flags().StringVar(&onErrorFlag, "on-error", "", "override producer.on_error: skip|fail")
}

package pipeline_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fxarb/arbiter/arbconfig"
	"github.com/fxarb/arbiter/pipeline"
	"github.com/fxarb/arbiter/producer"
)

func testConfig() *arbconfig.Config {
	cfg := arbconfig.Default()
	cfg.Producer.Interval = time.Millisecond
	cfg.Producer.BatchSize = 8
	cfg.Producer.ChannelCapacity = 4
	cfg.Writer.RebuildLimit = 1
	cfg.Searcher.Interval = 2 * time.Millisecond
	cfg.Searcher.OutputChannelCapacity = 4
	cfg.ShutdownTimeout = 200 * time.Millisecond
	return cfg
}

func TestPipeline_FiniteCsvRunFindsCycleAndExitsCleanly(t *testing.T) {
	require := require.New(t)

	csv := "0,1,0.92\n1,2,150.5\n2,0,0.0074\n"
	streamer, err := producer.NewCsvStreamer(strings.NewReader(csv), 8, producer.OnErrorSkip, nil)
	require.NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := pipeline.Run(ctx, testConfig(), streamer, nil)
	require.NoError(err)
	require.NotEmpty(result.Cycles)
	require.Len(result.Cycles[0].Path, 3)
}

func TestPipeline_ExternalCancellationStopsCleanly(t *testing.T) {
	require := require.New(t)

	streamer, err := producer.NewSimStreamer(producer.SimConfig{
		NodeCount:     8,
		EdgesPerBatch: 4,
		RateMin:       0.9,
		RateMax:       1.1,
		Seed:          7,
	})
	require.NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = pipeline.Run(ctx, testConfig(), streamer, nil)
	require.True(err == nil || err == context.DeadlineExceeded)
}

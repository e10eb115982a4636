package producer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fxarb/arbiter/arbtypes"
	"github.com/fxarb/arbiter/producer"
)

type countingStreamer struct {
	n int
}

func (s *countingStreamer) NextBatch() (arbtypes.EdgeBatch, error) {
	s.n++
	return arbtypes.EdgeBatch{{From: 0, To: 1, Rate: 1.5}}, nil
}

func TestProducer_ClosesOutOnStreamDone(t *testing.T) {
	require := require.New(t)

	calls := 0
	streamer := streamerFunc(func() (arbtypes.EdgeBatch, error) {
		calls++
		if calls > 2 {
			return nil, producer.ErrStreamDone
		}
		return arbtypes.EdgeBatch{{From: 0, To: 1, Rate: 1.5}}, nil
	})

	out := make(chan arbtypes.EdgeBatch, 4)
	p := producer.New(streamer, time.Millisecond, out)

	err := p.Run(context.Background())
	require.NoError(err)

	var batches int
	for range out {
		batches++
	}
	require.Equal(2, batches)
}

func TestProducer_BackpressureBlocksOnFullChannel(t *testing.T) {
	require := require.New(t)

	s := &countingStreamer{}
	out := make(chan arbtypes.EdgeBatch, 2)
	p := producer.New(s, time.Millisecond, out)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = p.Run(ctx)
		close(done)
	}()

	<-ctx.Done()
	<-done

	// The channel never exceeds its declared capacity: backpressure, not
	// an unbounded buffer, is what keeps the producer from outrunning the
	// writer. A blocked send also caps how many times NextBatch needed to
	// be called relative to what the channel could hold.
	require.LessOrEqual(len(out), cap(out))
	require.LessOrEqual(s.n, cap(out)+4, "producer should have blocked instead of running far ahead of the reader")
}

type streamerFunc func() (arbtypes.EdgeBatch, error)

func (f streamerFunc) NextBatch() (arbtypes.EdgeBatch, error) { return f() }

func TestCsvStreamer_SkipsHeaderAndMalformedRows(t *testing.T) {
	require := require.New(t)

	csv := "from,to,rate\n0,1,0.92\nbad,row,here\n1,2,150.5\n2,0,0.0074\n"
	s, err := producer.NewCsvStreamer(strings.NewReader(csv), 10, producer.OnErrorSkip, nil)
	require.NoError(err)

	batch, err := s.NextBatch()
	require.NoError(err)
	require.Len(batch, 3)

	_, err = s.NextBatch()
	require.True(errors.Is(err, producer.ErrStreamDone))
}

func TestCsvStreamer_FailsFastOnMalformedRow(t *testing.T) {
	require := require.New(t)

	csv := "0,1,0.92\nbad,row,here\n"
	_, err := producer.NewCsvStreamer(strings.NewReader(csv), 10, producer.OnErrorFail, nil)
	require.Error(err)
	require.ErrorIs(err, arbtypes.ErrMalformedRow)
}

func TestCsvStreamer_BatchesByConfiguredSize(t *testing.T) {
	require := require.New(t)

	csv := "0,1,1.5\n1,2,1.5\n2,0,1.5\n"
	s, err := producer.NewCsvStreamer(strings.NewReader(csv), 2, producer.OnErrorSkip, nil)
	require.NoError(err)

	first, err := s.NextBatch()
	require.NoError(err)
	require.Len(first, 2)

	second, err := s.NextBatch()
	require.NoError(err)
	require.Len(second, 1)

	_, err = s.NextBatch()
	require.ErrorIs(err, producer.ErrStreamDone)
}

func TestSimStreamer_GeneratesWithinConfiguredBounds(t *testing.T) {
	require := require.New(t)

	s, err := producer.NewSimStreamer(producer.SimConfig{
		NodeCount:     10,
		EdgesPerBatch: 20,
		RateMin:       0.5,
		RateMax:       2.0,
		Seed:          42,
	})
	require.NoError(err)

	batch, err := s.NextBatch()
	require.NoError(err)
	require.Len(batch, 20)

	for _, e := range batch {
		require.NotEqual(e.From, e.To)
		require.GreaterOrEqual(int64(e.From), int64(0))
		require.Less(int64(e.From), int64(10))
		require.GreaterOrEqual(e.Rate, 0.5)
		require.Less(e.Rate, 2.0)
	}
}

func TestSimStreamer_RejectsInvalidConfig(t *testing.T) {
	require := require.New(t)

	_, err := producer.NewSimStreamer(producer.SimConfig{NodeCount: 1, EdgesPerBatch: 1, RateMin: 0.5, RateMax: 2.0})
	require.ErrorIs(err, arbtypes.ErrConfiguration)
}

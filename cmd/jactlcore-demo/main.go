// Command jactlcore-demo exercises the runtime end to end: a fiber first
// suspends on a simulated blocking call that supplies a threshold, and
// once the runtime's worker pool delivers the result it runs an iterator
// pipeline over a list to completion. While suspended, its pending
// Continuation is checkpointed and
// immediately restored into a fresh fiber to show the codec round trip.
//
// Run with: go run ./cmd/jactlcore-demo/
package main

import (
	"fmt"
	"time"

	"github.com/jactl-go/corert/codec"
	"github.com/jactl-go/corert/cont"
	"github.com/jactl-go/corert/corelog"
	"github.com/jactl-go/corert/iter"
	"github.com/jactl-go/corert/reduce"
	"github.com/jactl-go/corert/value"
)

func main() {
	corelog.SetLogger(corelog.NewDefaultLogger(corelog.LevelInfo))

	rt := cont.NewRuntime(cont.WithWorkers(2))
	defer rt.Close()

	done := make(chan cont.Outcome, 1)
	op := sumOfSquaresOp(done)

	f := rt.NewFiber()
	outcome := f.Start(op)
	if !outcome.Suspended {
		report(outcome)
		return
	}

	fmt.Println("fiber suspended waiting on the worker pool")
	checkpointDemo(f, op)

	final := <-done
	report(final)
}

// sumOfSquaresOp builds source -> filter(above threshold) -> map(square) ->
// sum, but first suspends via a simulated blocking fetch standing in for a
// host call (a database read, an RPC) that supplies the threshold. done
// receives the fiber's terminal Outcome once the pipeline finishes, since
// the runtime's worker pool drives the resumed fiber on its own goroutine.
func sumOfSquaresOp(done chan<- cont.Outcome) cont.Op {
	var op cont.Op
	op = func(resume *cont.Continuation) cont.Step[value.Value] {
		if resume != nil {
			step := finishPipeline(resume)
			if step.IsReady() || step.IsError() {
				done <- cont.Outcome{Done: true, Value: valueOrNil(step), Err: errOrNil(step)}
			}
			return step
		}

		task := cont.Blocking("fetch-threshold", 0, func() (value.Value, error) {
			time.Sleep(50 * time.Millisecond)
			return value.Int64(3), nil
		})
		c := cont.NewContinuation(op, 1, nil)
		return cont.SuspendedStep[value.Value](cont.NewSuspend(c, task))
	}
	return op
}

func valueOrNil(s cont.Step[value.Value]) value.Value {
	if s.IsReady() {
		return s.Value()
	}
	return nil
}

func errOrNil(s cont.Step[value.Value]) error {
	if s.IsError() {
		return s.Err()
	}
	return nil
}

func finishPipeline(resume *cont.Continuation) cont.Step[value.Value] {
	threshold := int64(resume.Result.(value.Value).(value.Int64))

	src := iter.FromSlice(intValues(1, 2, 3, 4, 5, 6, 7, 8))
	above := iter.Filter(src, syncCallback(func(v value.Value) value.Value {
		return value.Bool(int64(v.(value.Int64)) > threshold)
	}))
	squared := iter.Map(above, syncCallback(func(v value.Value) value.Value {
		n := int64(v.(value.Int64))
		return value.Int64(n * n)
	}))

	return reduce.Drive(nil, squared, reduce.NewSum(), value.Int64(0))
}

func syncCallback(f func(value.Value) value.Value) iter.Callback {
	return func(resume *cont.Continuation, arg value.Value) cont.Step[value.Value] {
		return cont.Ready(f(arg))
	}
}

func intValues(vs ...int64) []value.Value {
	out := make([]value.Value, len(vs))
	for i, v := range vs {
		out[i] = value.Int64(v)
	}
	return out
}

// checkpointDemo captures the fiber's pending Continuation mid-suspension
// and restores it into a second, unrelated Fiber, demonstrating that a
// checkpoint taken at any suspension point can be reinflated independently
// of the fiber that produced it.
func checkpointDemo(f *cont.Fiber, op cont.Op) {
	var data []byte
	if _, err := codec.Checkpoint(f, func(b []byte) (value.Value, error) {
		data = append([]byte(nil), b...)
		return nil, nil
	}); err != nil {
		fmt.Printf("checkpoint failed: %v\n", err)
		return
	}

	restored, synthetic, err := codec.Restore(data, 0, nil, op, func(encoded value.Value, hasFrame bool) any {
		return op
	}, nil)
	if err != nil {
		fmt.Printf("restore failed: %v\n", err)
		return
	}
	fmt.Printf("checkpoint captured %d bytes, restored fiber state: %s, synthetic result: %v\n", len(data), restored.State(), synthetic)
}

func report(outcome cont.Outcome) {
	if outcome.Err != nil {
		fmt.Printf("pipeline failed: %v\n", outcome.Err)
		return
	}
	fmt.Printf("sum of squares above threshold: %v\n", outcome.Value)
}

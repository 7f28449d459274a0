package engine

import (
	"github.com/andreyakinshin/taskforge/internal/trace"
)

// coordinator is the single-threaded actor owning parallel-run scheduling
// state. It is driven entirely by messages arriving on requestCh; all
// state transitions happen inside run(), which is the only goroutine that
// ever touches the fields below. This gives linearizable "assign T to
// exactly one worker" semantics without locks.
type coordinator struct {
	scheduled  map[string]*Target   // folded name -> target, everything this run must execute
	effective  map[string][]string  // folded name -> effective predecessor names
	running    map[string]bool      // folded name -> currently assigned to a worker
	layerIndex map[string]int       // folded name -> layer number, used to prefer critical-path progress
	tracer     trace.Tracer

	ctx *TargetContext

	requestCh     chan workerRequest
	waitList      []chan workerReply // parked workers awaiting work
	activeWorkers int                // workers that have not yet received a done/err reply
}

// workerRequest is sent by a worker asking for its next assignment, or
// reporting back the context produced by the target it just finished.
type workerRequest struct {
	ctx   *TargetContext
	reply chan workerReply
}

// workerReply is the coordinator's answer: either a target to run (together
// with the coordinator's current merged context, so the worker observes
// every other worker's results-so-far before deciding whether to skip via
// driveTarget's HasError/cancellation checks), or done=true, or a fault.
type workerReply struct {
	target *Target
	ctx    *TargetContext
	done   bool
	err    error
}

func newCoordinator(scheduled map[string]*Target, effective map[string][]string, layers []Layer, ctx *TargetContext, tracer trace.Tracer, workers int) *coordinator {
	layerIndex := make(map[string]int, len(scheduled))
	for i, layer := range layers {
		for _, t := range layer {
			layerIndex[t.canonical] = i
		}
	}
	return &coordinator{
		scheduled:     scheduled,
		effective:     effective,
		running:       make(map[string]bool),
		layerIndex:    layerIndex,
		tracer:        tracer,
		ctx:           ctx,
		requestCh:     make(chan workerRequest),
		activeWorkers: workers,
	}
}

// run is the coordinator's single message-handling loop. It returns the
// final merged TargetContext once every worker has received a terminal
// reply, or an error on an unrecoverable scheduler fault.
func (c *coordinator) run() (*TargetContext, error) {
	var faultErr error

	for c.activeWorkers > 0 {
		req := <-c.requestCh

		c.merge(req.ctx)
		c.cleanupRunning()

		if faultErr != nil {
			req.reply <- workerReply{err: faultErr}
			c.activeWorkers--
			continue
		}

		if c.isDone() {
			c.drainWaiters(workerReply{done: true})
			req.reply <- workerReply{done: true}
			c.activeWorkers--
			continue
		}

		runnable, err := c.findRunnable()
		if err != nil {
			faultErr = err
			c.drainWaiters(workerReply{err: err})
			req.reply <- workerReply{err: err}
			c.activeWorkers--
			continue
		}

		c.fillParkedWorkers(&runnable)

		if len(runnable) > 0 {
			t := runnable[0]
			c.running[t.canonical] = true
			req.reply <- workerReply{target: t, ctx: c.ctx}
		} else {
			c.waitList = append(c.waitList, req.reply)
		}
	}

	return c.ctx, faultErr
}

// merge appends previously-unseen results from worker into c.ctx, deduped
// by case-insensitive target name, preserving completion order across all
// workers.
func (c *coordinator) merge(worker *TargetContext) {
	if worker == nil {
		return
	}
	have := c.ctx.completedSet()
	for _, r := range worker.PreviousTargets {
		key := fold(r.Target.Name)
		if have[key] {
			continue
		}
		have[key] = true
		c.ctx = c.ctx.withResult(r)
	}
}

// cleanupRunning removes any target now present in results from c.running.
func (c *coordinator) cleanupRunning() {
	done := c.ctx.completedSet()
	for key := range c.running {
		if done[key] {
			delete(c.running, key)
		}
	}
}

func (c *coordinator) isDone() bool {
	return len(c.ctx.completedSet()) >= len(c.scheduled)
}

// findRunnable scans c.scheduled in layered order (lower layers first) for
// targets whose effective predecessors are all complete, are not already
// running, and have not completed. Returns a scheduler-deadlock error if
// nothing is running and nothing is runnable while work remains.
func (c *coordinator) findRunnable() ([]*Target, error) {
	done := c.ctx.completedSet()

	var candidates []*Target
	for key, t := range c.scheduled {
		if done[key] || c.running[key] {
			continue
		}
		ready := true
		for _, pred := range c.effective[key] {
			if !done[fold(pred)] {
				ready = false
				break
			}
		}
		if ready {
			candidates = append(candidates, t)
		}
	}

	sortByLayerThenName(candidates, c.layerIndex)

	if len(candidates) == 0 && len(c.running) == 0 {
		return nil, newSchedulerError("scheduler deadlock: 0 runnable, %d targets still pending", len(c.scheduled)-len(done))
	}

	return candidates, nil
}

// fillParkedWorkers hands runnable targets to parked workers first,
// removing assigned targets from runnable in place.
func (c *coordinator) fillParkedWorkers(runnable *[]*Target) {
	for len(c.waitList) > 0 && len(*runnable) > 0 {
		t := (*runnable)[0]
		*runnable = (*runnable)[1:]
		c.running[t.canonical] = true

		reply := c.waitList[0]
		c.waitList = c.waitList[1:]
		reply <- workerReply{target: t, ctx: c.ctx}
	}
}

// drainWaiters sends reply to every parked worker and accounts for their
// departure in activeWorkers (they will not call back through requestCh
// again after a terminal reply).
func (c *coordinator) drainWaiters(reply workerReply) {
	for _, w := range c.waitList {
		w <- reply
		c.activeWorkers--
	}
	c.waitList = nil
}

func sortByLayerThenName(targets []*Target, layerIndex map[string]int) {
	// Simple insertion sort: candidate counts are small (target graphs are
	// tiny in practice).
	for i := 1; i < len(targets); i++ {
		for j := i; j > 0 && less(targets[j], targets[j-1], layerIndex); j-- {
			targets[j], targets[j-1] = targets[j-1], targets[j]
		}
	}
}

func less(a, b *Target, layerIndex map[string]int) bool {
	if layerIndex[a.canonical] != layerIndex[b.canonical] {
		return layerIndex[a.canonical] < layerIndex[b.canonical]
	}
	return fold(a.Name) < fold(b.Name)
}

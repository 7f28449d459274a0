package engine

import "github.com/andreyakinshin/taskforge/internal/trace"

// runWorker is one worker's loop: ask the coordinator for
// the next target, passing along the most recent context; drive it if one
// is returned; loop until the coordinator replies "no more work" or faults.
func runWorker(c *coordinator, initial *TargetContext, tracer trace.Tracer) error {
	ctx := initial
	for {
		reply := make(chan workerReply)
		c.requestCh <- workerRequest{ctx: ctx, reply: reply}
		resp := <-reply

		if resp.err != nil {
			return resp.err
		}
		if resp.done {
			return nil
		}

		ctx = driveTarget(resp.target, resp.ctx, tracer)
	}
}

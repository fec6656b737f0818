// File: pkg/path/path.go
// Package path
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Path is the engine of spec.md §4.8: one goroutine that, depending on
// configuration, reads event-driven from a single source, polls a set
// of sources via their wakeup channels, or wakes on a periodic Task,
// muxes each source's contribution into a held-state buffer via its
// MappingList, runs the path-level hook chain, and fans the result out
// to every Destination.
//
// Grounded on facade/hioload.go's orchestration-by-composition
// lifecycle and internal/concurrency/executor.go's fan-in-over-channel
// worker shape, generalized here to fan in per-source wakeup signals
// instead of work items.

package path

import (
	"context"
	"sync"
	"time"

	"github.com/villasnode/node/api"
	"github.com/villasnode/node/internal/task"
	"github.com/villasnode/node/pkg/hook"
	"github.com/villasnode/node/pkg/mapping"
	"github.com/villasnode/node/pkg/pool"
	"github.com/villasnode/node/pkg/sample"
	"github.com/villasnode/node/pkg/signal"
)

// MuxMode selects how a Path decides when a muxed round is ready to
// emit (spec.md §4.8).
type MuxMode int

const (
	// ModeAny emits whenever any masked Source produces a new sample.
	ModeAny MuxMode = iota
	// ModeAll emits only once every masked Source has produced since
	// the previous emission.
	ModeAll
)

// slot is one Source's position within the Path's held-state mux
// buffer, plus its emission-trigger bookkeeping.
type slot struct {
	src       *Source
	base      int
	length    int
	trigger   bool // counts toward mode=all/any trigger_mask
	triggered bool // has produced since the last emission (mode=all)
}

// Path is a directed flow of one or more Sources into one or more
// Destinations, with its own hook chain and dedicated goroutine
// (spec.md §3, §4.8).
type Path struct {
	UUID  string
	Mode  MuxMode
	Poll  bool
	Rate  float64 // Hz; 0 = event-driven

	OutputSignals *signal.List
	Stats         mapping.StatsSource

	destinations []*Destination
	hooks        *hook.Chain
	pool         *pool.Pool

	slots     []*slot
	totalLen  int
	heldData  []signal.Data
	heldTsOrg sample.Timespec

	mu    sync.Mutex
	state api.State
	seq   uint64

	cancel context.CancelFunc
	wg     sync.WaitGroup
	errCh  chan error
}

// New constructs an empty Path. Sources and Destinations are attached
// with AddSource/AddDestination before Prepare.
func New(uuid string, mode MuxMode, poll bool, rate float64, p *pool.Pool, hooks *hook.Chain) *Path {
	return &Path{
		UUID:  uuid,
		Mode:  mode,
		Poll:  poll,
		Rate:  rate,
		pool:  p,
		hooks: hooks,
		state: api.StateInitialized,
		errCh: make(chan error, 1),
	}
}

// AddSource attaches a Source with its contribution's trigger_mask
// membership. Must be called before Prepare.
func (p *Path) AddSource(s *Source, trigger bool) {
	p.slots = append(p.slots, &slot{src: s, trigger: trigger})
}

// AddDestination attaches a Destination. Must be called before Start.
func (p *Path) AddDestination(d *Destination) {
	p.destinations = append(p.destinations, d)
}

// RequestRestart is bound as the RestartFunc for every Source's
// built-in restart hook. It must run synchronously: the Restart hook
// fires from inside that same Source's Chain.Run, one priority slot
// ahead of the Drop hook in the very same pass, so Drop's lastSeq has
// to be cleared before Chain.Run reaches it for the resetting sample
// (spec.md §4.5 scenario 3; the original hook_run(..., HOOK_PATH_RESTART)
// is likewise synchronous). Path.Restart and Chain.Restart only reset
// plain fields and take no locks, so calling back into them from within
// an in-flight Chain.Run on the same goroutine is safe.
func (p *Path) RequestRestart() {
	if err := p.Restart(); err != nil {
		p.fail(err)
	}
}

// Prepare assigns each Source's mapping a contiguous base offset within
// the Path's held-state mux buffer and allocates it (spec.md §4.8's
// "output Sample of length sum(mapping.length)").
func (p *Path) Prepare() error {
	offset := 0
	for _, sl := range p.slots {
		sl.base = offset
		sl.length = sl.src.Mapping.Len()
		offset += sl.length
	}
	p.totalLen = offset
	p.heldData = make([]signal.Data, p.totalLen)
	p.state = api.StatePrepared
	return nil
}

// State returns the Path's current lifecycle state.
func (p *Path) State() api.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Path) setState(s api.State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Start launches the Path's goroutine and every Destination's writer.
func (p *Path) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	for _, d := range p.destinations {
		d.Start(ctx)
	}
	p.wg.Add(1)
	switch {
	case len(p.slots) == 1 && !p.Poll && p.Rate == 0:
		go p.runEventDriven(ctx)
	case p.Rate > 0 && !p.Poll:
		go p.runPeriodic(ctx)
	default:
		go p.runPolled(ctx)
	}
	p.setState(api.StateStarted)
	return nil
}

// Stop signals the Path's goroutine and every Destination to exit and
// waits for them.
func (p *Path) Stop() error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	for _, d := range p.destinations {
		d.Stop()
	}
	p.setState(api.StateStopped)
	return nil
}

// Restart resets the Path's own hook chain and every Source's hook
// chain, per spec.md's restart built-in semantics.
func (p *Path) Restart() error {
	for _, sl := range p.slots {
		if err := sl.src.Restart(); err != nil {
			return err
		}
	}
	return p.hooks.Restart()
}

// Err returns the fatal error that stopped the Path's goroutine, if
// any, without blocking.
func (p *Path) Err() error {
	select {
	case err := <-p.errCh:
		return err
	default:
		return nil
	}
}

func (p *Path) fail(err error) {
	select {
	case p.errCh <- err:
	default:
	}
	p.setState(api.StateStopped)
}

// runEventDriven handles the single-source, poll=false, rate=0 case:
// each incoming sample is muxed and emitted individually as soon as it
// arrives (spec.md §4.8 mode 1).
func (p *Path) runEventDriven(ctx context.Context) {
	defer p.wg.Done()
	sl := p.slots[0]
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		batch, err := sl.src.Read()
		if err != nil {
			p.fail(err)
			return
		}
		for _, s := range batch {
			out, muxErr := p.muxRound([]*slot{sl}, map[*slot]*sample.Sample{sl: s})
			s.Decref()
			if muxErr != nil {
				p.fail(muxErr)
				return
			}
			if out != nil {
				p.emit(out)
			}
		}
	}
}

// runPolled fans in every source's wakeup channel and drains whichever
// sources are ready each round (spec.md §4.8 mode 2). Also used for a
// Path with more than one Source and rate 0 regardless of the poll
// flag, since Go has no portable epoll-equivalent over arbitrary
// channels other than a fan-in goroutine per source.
func (p *Path) runPolled(ctx context.Context) {
	defer p.wg.Done()
	readyCh := make(chan int, len(p.slots))
	for i, sl := range p.slots {
		fds := sl.src.Node.PollFDs()
		for _, fd := range fds {
			go watchWakeSource(ctx, fd, i, readyCh)
		}
	}

	var timeoutCh <-chan time.Time
	if p.Rate > 0 {
		timeoutCh = time.After(time.Duration(float64(time.Second) / p.Rate))
	}

	for {
		var idx int
		select {
		case <-ctx.Done():
			return
		case idx = <-readyCh:
		case <-timeoutCh:
			if p.Rate > 0 {
				timeoutCh = time.After(time.Duration(float64(time.Second) / p.Rate))
			}
			continue
		}

		sl := p.slots[idx]
		batch, err := sl.src.Read()
		if err != nil {
			p.fail(err)
			return
		}
		if len(batch) == 0 {
			continue
		}
		latest := batch[len(batch)-1]
		out, muxErr := p.muxRound([]*slot{sl}, map[*slot]*sample.Sample{sl: latest})
		for _, s := range batch {
			s.Decref()
		}
		if muxErr != nil {
			p.fail(muxErr)
			return
		}
		if out != nil {
			p.emit(out)
		}
	}
}

// runPeriodic drains every source's latest value at a fixed rate,
// holding each source's last known contribution across ticks where it
// produced nothing new (spec.md §4.8 mode 3).
func (p *Path) runPeriodic(ctx context.Context) {
	defer p.wg.Done()
	t, err := task.New(p.Rate)
	if err != nil {
		p.fail(err)
		return
	}
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if _, err := t.Wait(); err != nil {
			p.fail(err)
			return
		}
		if err := p.hooks.Periodic(); err != nil {
			p.fail(err)
			return
		}

		fresh := make(map[*slot]*sample.Sample)
		var toRelease []*sample.Sample
		for _, sl := range p.slots {
			batch, err := sl.src.Read()
			if err != nil {
				p.fail(err)
				return
			}
			if len(batch) == 0 {
				continue
			}
			fresh[sl] = batch[len(batch)-1]
			toRelease = append(toRelease, batch...)
		}

		ready := make([]*slot, 0, len(fresh))
		for sl := range fresh {
			ready = append(ready, sl)
		}
		out, muxErr := p.muxRound(ready, fresh)
		for _, s := range toRelease {
			s.Decref()
		}
		if muxErr != nil {
			p.fail(muxErr)
			return
		}
		if out != nil {
			p.emit(out)
		}
	}
}

func watchWakeSource(ctx context.Context, fd api.WakeSource, idx int, readyCh chan<- int) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-fd:
			if !ok {
				return
			}
			select {
			case readyCh <- idx:
			case <-ctx.Done():
				return
			}
		}
	}
}

// muxRound remaps fresh's contributions into the held-state buffer at
// each slot's assigned offset, decides per Mode/trigger_mask whether a
// round is ready to emit, and if so builds and returns the muxed
// Sample drawn from the Path's Pool. Returns a nil Sample (not an
// error) when the round does not yet satisfy the emission policy.
func (p *Path) muxRound(ready []*slot, fresh map[*slot]*sample.Sample) (*sample.Sample, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, sl := range ready {
		in := fresh[sl]
		proxy := &sample.Sample{Data: p.heldData[sl.base : sl.base+sl.length], Capacity: sl.length}
		if err := sl.src.Mapping.Remap(proxy, in, p.Stats); err != nil {
			return nil, err
		}
		if in.TsOrigin.Compare(p.heldTsOrg) > 0 {
			p.heldTsOrg = in.TsOrigin
		}
		if sl.trigger {
			sl.triggered = true
		}
	}

	if !p.shouldEmit(ready) {
		return nil, nil
	}

	out := p.pool.Get()
	if out == nil {
		return nil, api.MemoryAllocationError(nil, "path %s: mux pool exhausted", p.UUID)
	}
	out.Signals = p.OutputSignals
	out.Flags = out.Flags.Set(sample.HasData | sample.HasSignals | sample.HasTsOrigin | sample.HasTsReceived | sample.HasSequence)
	copy(out.Data[:p.totalLen], p.heldData[:p.totalLen])
	out.Length = p.totalLen
	out.TsOrigin = p.heldTsOrg
	out.TsReceived = sample.Now()
	out.Sequence = p.seq
	p.seq++

	if p.Mode == ModeAll {
		for _, sl := range p.slots {
			sl.triggered = false
		}
	}
	return out, nil
}

func (p *Path) shouldEmit(ready []*slot) bool {
	switch p.Mode {
	case ModeAll:
		for _, sl := range p.slots {
			if sl.trigger && !sl.triggered {
				return false
			}
		}
		return true
	default: // ModeAny
		for _, sl := range ready {
			if sl.trigger {
				return true
			}
		}
		return false
	}
}

// emit runs the Path-level hook chain over out, then enqueues it to
// every Destination before releasing the Path's own reference
// (spec.md §4.8's fan-out).
func (p *Path) emit(out *sample.Sample) {
	keep, err := p.hooks.Run(out)
	if err != nil {
		out.Decref()
		p.fail(err)
		return
	}
	if keep {
		for _, d := range p.destinations {
			d.Enqueue(out)
		}
	}
	out.Decref()
}

package sharc

// Channel is an ordered queue of animation packages. Only the head package
// plays; an empty channel is idle.
type Channel struct {
	queue []*Package
	index int
}

// Len returns the number of queued packages, including the current one.
func (c *Channel) Len() int { return len(c.queue) }

// Idle reports whether nothing is queued.
func (c *Channel) Idle() bool { return len(c.queue) == 0 }

// Current returns the head package, or nil when idle.
func (c *Channel) Current() *Package {
	if len(c.queue) == 0 {
		return nil
	}
	return c.queue[0]
}

// Index returns the channel's slot on its node.
func (c *Channel) Index() int { return c.index }

// Push validates anims into a package and appends it to the queue.
func (c *Channel) Push(anims []Animation, opts PackageOptions) error {
	p, err := newPackage(anims, opts)
	if err != nil {
		return err
	}
	c.queue = append(c.queue, p)
	return nil
}

// Unshift validates anims into a package and makes it the current package.
// The interrupted package keeps its progress and resumes afterwards.
func (c *Channel) Unshift(anims []Animation, opts PackageOptions) error {
	p, err := newPackage(anims, opts)
	if err != nil {
		return err
	}
	c.queue = append(c.queue, nil)
	copy(c.queue[1:], c.queue)
	c.queue[0] = p
	return nil
}

// Enqueue is a bounded insert for callers that emit requests every frame.
// With nothing playing it behaves like Push. Slot 0 (or below) flushes the
// queue and replaces it with the new package. Any other slot overwrites the
// package already there, or appends when the slot is past the end.
func (c *Channel) Enqueue(anims []Animation, slot int, opts PackageOptions) error {
	if len(c.queue) == 0 {
		return c.Push(anims, opts)
	}
	p, err := newPackage(anims, opts)
	if err != nil {
		return err
	}
	switch {
	case slot <= 0:
		c.Clear()
		c.queue = append(c.queue, p)
	case slot < len(c.queue):
		c.queue[slot] = p
	default:
		c.queue = append(c.queue, p)
	}
	return nil
}

// Clear drops every queued package.
func (c *Channel) Clear() {
	for i := range c.queue {
		c.queue[i] = nil
	}
	c.queue = c.queue[:0]
}

// StepForward advances the channel by one frame and returns the tween that
// is active on this frame, or nil when the channel is idle or the current
// animation is still in its delay. A tween is active for the inclusive frame
// window 0..Duration, so it takes Delay+Duration+1 steps.
func (c *Channel) StepForward() *Animation {
	if len(c.queue) == 0 {
		return nil
	}
	p := c.queue[0]
	p.step++
	a := p.animations[p.index]
	if p.step > a.Delay+a.Duration+p.preDelay() {
		p.step = 0
		p.index++
		if p.index >= len(p.animations) {
			p.index = 0
			p.cycle++
			if p.cycle >= p.iterations {
				p.cycle = 0
				if !p.loop {
					c.dropHead()
				}
			}
		}
	}
	if len(c.queue) == 0 {
		return nil
	}
	p = c.queue[0]
	a = p.animations[p.index]
	pre := a.Delay + p.preDelay()
	if p.step < pre {
		return nil
	}
	a.frame = max(p.step-pre, 0)
	a.channel = c.index
	return a
}

// dropHead removes the finished head package. The next package, if any,
// takes this frame as its next step.
func (c *Channel) dropHead() {
	copy(c.queue, c.queue[1:])
	c.queue[len(c.queue)-1] = nil
	c.queue = c.queue[:len(c.queue)-1]
	if len(c.queue) > 0 {
		c.queue[0].step++
	}
}

package transfers

// frameAssembler joins payloads into frames. A frame ends on the end of frame
// bit or, for devices that never set it, when the frame id bit toggles.
type frameAssembler struct {
	started bool
	fid     bool
	buf     []byte
	emit    func(frame []byte)
}

func (a *frameAssembler) push(p *Payload) {
	if p.Error() {
		// the device flagged this frame as bad, drop what we have
		a.started = false
		a.buf = a.buf[:0]
		return
	}
	if a.started && p.FrameID() != a.fid {
		a.flush()
	}
	if !a.started {
		a.started = true
		a.fid = p.FrameID()
	}
	a.buf = append(a.buf, p.Data...)
	if p.EndOfFrame() {
		a.flush()
	}
}

func (a *frameAssembler) flush() {
	if len(a.buf) > 0 {
		frame := make([]byte, len(a.buf))
		copy(frame, a.buf)
		a.emit(frame)
	}
	a.started = false
	a.buf = a.buf[:0]
}

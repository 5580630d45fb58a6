package ducker

// Logger receives diagnostic messages from a ducker instance. It is
// satisfied by *log.Logger. Logging happens only off the audio path.
type Logger interface {
	Printf(format string, v ...any)
}

// Option configures a Ducker at construction time.
type Option func(*Ducker)

// WithLogger injects a logger. The default is no logging.
func WithLogger(l Logger) Option {
	return func(d *Ducker) {
		d.logger = l
	}
}

// Ducker is one processing instance: an envelope engine plus the
// parameters it reads. Trigger events and audio processing must be
// serialized by the host (e.g. invoked from the same real-time
// callback); within a block the parameters are treated as fixed.
type Ducker struct {
	params *Params
	env    *EnvelopeEngine
	logger Logger
}

// New creates a ducker instance at unity gain. A nil params uses
// defaults.
func New(params *Params, opts ...Option) *Ducker {
	if params == nil {
		params = NewDefaultParams()
	}
	d := &Ducker{
		params: params,
		env:    NewEnvelopeEngine(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	d.logf("ducker: instance created (mode=%s curve=%s)", params.Mode, params.Curve)
	return d
}

// Params returns the instance parameters.
func (d *Ducker) Params() *Params { return d.params }

// SetParams replaces the instance parameters. Must not be called
// concurrently with processing.
func (d *Ducker) SetParams(p *Params) {
	if p == nil {
		return
	}
	d.params = p
	d.logf("ducker: params updated (mode=%s curve=%s depth=%.3f)", p.Mode, p.Curve, p.Depth)
}

// Envelope returns the underlying envelope engine.
func (d *Ducker) Envelope() *EnvelopeEngine { return d.env }

// EnvelopeValue returns the current gain in [0,1].
func (d *Ducker) EnvelopeValue() float32 { return d.env.Value() }

// NoteOn delivers an already-matched trigger event with the given
// velocity (1-127).
func (d *Ducker) NoteOn(velocity int) {
	d.env.Trigger(velocity, d.params)
}

// NoteOff delivers an already-matched release event.
func (d *Ducker) NoteOff() {
	d.env.Release(d.params)
}

// Reset returns the envelope to idle at unity gain.
func (d *Ducker) Reset() {
	d.env.Reset()
}

// ProcessInt16 applies the ducking envelope to interleaved stereo
// int16 frames in place. The gain is advanced and applied per frame,
// so envelope motion is free of block-rate stepping. A trailing odd
// sample is left untouched.
func (d *Ducker) ProcessInt16(interleaved []int16) {
	frames := len(interleaved) / 2
	for i := 0; i < frames; i++ {
		gain := d.env.Advance(d.params)
		l, r := ApplyGain(interleaved[i*2], interleaved[i*2+1], gain)
		interleaved[i*2] = l
		interleaved[i*2+1] = r
	}
}

func (d *Ducker) logf(format string, v ...any) {
	if d.logger != nil {
		d.logger.Printf(format, v...)
	}
}

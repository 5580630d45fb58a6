package ducker

const (
	midiStatusNoteOff = 0x80
	midiStatusNoteOn  = 0x90
)

// OnMIDI filters a raw MIDI message against the configured channel and
// trigger note and forwards matching note events to the envelope. A
// note-on with zero velocity counts as a note-off. Messages shorter
// than three bytes and non-note messages are ignored.
func (d *Ducker) OnMIDI(msg []byte) {
	if len(msg) < 3 {
		return
	}

	status := msg[0] & 0xF0
	channel := int(msg[0]&0x0F) + 1 // 1-16
	note := int(msg[1] & 0x7F)
	velocity := int(msg[2] & 0x7F)

	p := d.params
	if p.Channel > 0 && channel != p.Channel {
		return
	}
	if note != p.TriggerNote {
		return
	}

	switch {
	case status == midiStatusNoteOn && velocity > 0:
		d.NoteOn(velocity)
	case status == midiStatusNoteOff,
		status == midiStatusNoteOn && velocity == 0:
		d.NoteOff()
	}
}

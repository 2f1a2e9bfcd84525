package ports

// Recorder receives one pre-formatted text line per significant lifecycle
// event (unit start/finish, abort, batch summary). The core has no awareness
// of file paths or rotation; that stays behind the adapter.
type Recorder interface {
	Record(line string)
}

// NopRecorder discards every line.
type NopRecorder struct{}

func (NopRecorder) Record(string) {}

package logger

// Injectable is implemented by collaborators, such as dynamically loaded
// plugins, that log through the host's sinks. InjectLogger is called
// before the collaborator issues any log call; it owns the reference it
// receives and typically passes it to Install.
type Injectable interface {
	InjectLogger(l *Logger)
}

// Inject hands every target its own reference to the process-wide logger
func Inject(targets ...Injectable) {
	for _, t := range targets {
		if t == nil {
			continue
		}
		t.InjectLogger(Acquire())
	}
}

package core

// Logger receives progress and warning messages from scene building and
// rendering. Messages carry their own trailing newline.
type Logger interface {
	Printf(format string, args ...interface{})
}

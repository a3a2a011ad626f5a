package ports

// Watcher monitors a directory of memory dumps and reports files to scan.
// The adapter (fsnotify) must debounce rapid events (a dump being written
// in several syscalls fires once, after the writes settle) and skip hidden
// files and subdirectories. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring dir, non-recursively. onDump is called with
	// the absolute path of each newly created or rewritten regular file.
	// The callback may be invoked from any goroutine. Returns an error if
	// the directory does not exist or permissions are insufficient.
	Watch(dir string, onDump func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onDump calls will fire. Safe to call multiple times.
	Stop() error
}

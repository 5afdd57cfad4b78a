package catalog

import "github.com/fsnotify/fsnotify"

func fsnotifyCreate(path string) fsnotify.Event {
	return fsnotify.Event{Name: path, Op: fsnotify.Create}
}

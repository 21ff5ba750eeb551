package watcher

import "context"

// Watcher monitors a drop folder for new videos
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one video file that appeared in the drop folder
type EventHandler func(ctx context.Context, filePath string) error

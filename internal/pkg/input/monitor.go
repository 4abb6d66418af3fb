package input

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/gethiox/sensehat/internal/pkg/logger"
)

// WaitForDevice returns the handler with given name, when it is not present yet
// it watches /dev/input until the handler shows up or ctx is cancelled.
func WaitForDevice(ctx context.Context, name string) (DeviceInfo, error) {
	return waitForDevice(ctx, inputDir, func() (DeviceInfo, error) {
		return FindHandler(name)
	})
}

func waitForDevice(ctx context.Context, dir string, lookup func() (DeviceInfo, error)) (DeviceInfo, error) {
	info, err := lookup()
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return DeviceInfo{}, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("creating watcher failed: %w", err)
	}
	defer func() {
		err := watcher.Close()
		if err != nil {
			log.Info(fmt.Sprintf("closing watcher failed: %v", err), logger.Debug)
		}
	}()

	err = watcher.Add(dir)
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("watching \"%s\" failed: %w", dir, err)
	}
	log.Info(fmt.Sprintf("input handler not present yet, watching %s", dir), logger.Info)

	for {
		// handler may appear between the first lookup and watcher registration
		info, err := lookup()
		if err == nil {
			return info, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return DeviceInfo{}, err
		}

	wait:
		for {
			select {
			case <-ctx.Done():
				return DeviceInfo{}, ctx.Err()
			case event, ok := <-watcher.Events:
				if !ok {
					return DeviceInfo{}, errors.New("watcher closed")
				}
				if event.Op&fsnotify.Create == fsnotify.Create {
					log.Info(fmt.Sprintf("new input node: %s", event.Name), logger.Debug)
					break wait
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return DeviceInfo{}, errors.New("watcher closed")
				}
				return DeviceInfo{}, fmt.Errorf("watcher failed: %w", err)
			}
		}
	}
}

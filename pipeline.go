package raster

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const defaultWorkers = 10

func (l *Library) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			// Only files with an extension some format claims are worth
			// opening at all
			if l.registry.FormatForExtension(file) == nil {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// scanFile hashes and decodes a single image file, returning a nil entry if
// no registered format can make sense of it.
func (l *Library) scanFile(file string) (*Entry, []byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}

	m, format, err := l.registry.Decode(f)
	if err != nil {
		if err == ErrUnknownFormat {
			l.logger.Printf("No format claims \"%s\"\n", file)
		} else {
			l.logger.Printf("Cannot decode \"%s\": %v\n", file, err)
		}
		return nil, nil, nil
	}

	thumb, err := encodeThumbnail(m, thumbEdge)
	if err != nil {
		return nil, nil, err
	}

	b := m.Bounds()
	return &Entry{
		Path:   file,
		Size:   info.Size(),
		SHA1:   fmt.Sprintf("%X", h.Sum(nil)),
		Format: format.Name(),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, thumb, nil
}

func (l *Library) fileWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			entry, thumb, err := l.scanFile(file)
			if err != nil {
				errc <- err
				return
			}
			if entry == nil {
				continue
			}
			if err := l.catalog.Put(*entry, thumb); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path and catalogs every image file a registered format can
// decode.
func (l *Library) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := l.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	workers := l.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		errc, err := l.fileWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}

package library

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"filterlab/pkg/imgutil"
)

// Scan walks root and returns every file whose header sniffs as a supported
// image, sorted by relative path. A file root yields at most one entry.
// updates, when non-nil, receives progress and must be drained.
func Scan(ctx context.Context, root string, updates chan<- ProgressUpdate) (Summary, []Entry, error) {
	summary := Summary{}
	var entries []Entry

	info, err := os.Stat(root)
	if err != nil {
		return summary, nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return summary, nil, err
	}

	jobs := make(chan job)
	results := make(chan result)

	workers := runtime.NumCPU()
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			worker(ctx, jobs, results)
		}()
	}

	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			summary.Files++
			update := ProgressUpdate{FilesDelta: 1}
			if res.Err != nil {
				summary.Errors++
				update.ErrorDelta = 1
			}
			if res.Supported {
				summary.Images++
				update.ImagesDelta = 1
				entries = append(entries, res.Entry)
			}
			if updates != nil {
				updates <- update
			}
		}
	}()

	producerErr := make(chan error, 1)
	go func() {
		defer close(jobs)

		sendJob := func(j job) error {
			select {
			case jobs <- j:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if !info.IsDir() {
			producerErr <- sendJob(job{Path: absRoot, RelPath: filepath.Base(absRoot)})
			return
		}

		fsys := os.DirFS(absRoot)
		err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				if path != "." && strings.HasPrefix(d.Name(), ".") {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			return sendJob(job{Path: filepath.Join(absRoot, path), RelPath: path})
		})
		producerErr <- err
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	sort.Slice(entries, func(i, j int) bool { return entries[i].RelPath < entries[j].RelPath })

	if err := <-producerErr; err != nil {
		return summary, entries, err
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return summary, entries, err
	}
	return summary, entries, nil
}

func worker(ctx context.Context, jobs <-chan job, results chan<- result) {
	for j := range jobs {
		if ctx.Err() != nil {
			return
		}

		res := result{Entry: Entry{Path: j.Path, RelPath: j.RelPath}}

		file, err := os.Open(j.Path)
		if err != nil {
			res.Err = err
			results <- res
			continue
		}

		kind, err := imgutil.SniffReader(file)
		if err == nil {
			var st os.FileInfo
			if st, err = file.Stat(); err == nil {
				res.Entry.Size = st.Size()
			}
		}
		_ = file.Close()

		switch {
		case errors.Is(err, imgutil.ErrShortHeader):
			// Too small to be an image; not an error.
		case err != nil:
			res.Err = err
		case kind != imgutil.KindUnknown:
			res.Entry.Kind = kind
			res.Supported = true
		}
		results <- res
	}
}

package certificates

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zip"
)

// Package writes files into a deflate zip at archivePath. Entry names are the
// paths relative to baseDir, so the sigil/entity hierarchy is kept.
func Package(files []string, baseDir, archivePath string) (string, error) {
	out, err := os.Create(archivePath)
	if err != nil {
		return "", err
	}

	zw := zip.NewWriter(out)
	for _, f := range files {
		if err := addFile(zw, f, baseDir); err != nil {
			zw.Close()
			out.Close()
			os.Remove(archivePath)
			return "", err
		}
	}
	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(archivePath)
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return archivePath, nil
}

func addFile(zw *zip.Writer, path, baseDir string) error {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		return fmt.Errorf("archive path for %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = filepath.ToSlash(rel)
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(w, src)
	return err
}

// Janitor deletes generation artifacts after a grace period, leaving time for the download.
type Janitor struct {
	Grace time.Duration

	mu      sync.Mutex
	pending map[*cleanupJob]struct{}
}

type cleanupJob struct {
	paths []string
	timer *time.Timer
	done  chan struct{}
	once  sync.Once
}

func NewJanitor(grace time.Duration) *Janitor {
	return &Janitor{Grace: grace, pending: make(map[*cleanupJob]struct{})}
}

// Schedule removes paths once the grace period has elapsed. The returned channel
// is closed when the removal has run.
func (j *Janitor) Schedule(paths ...string) <-chan struct{} {
	job := &cleanupJob{paths: paths, done: make(chan struct{})}

	j.mu.Lock()
	if j.pending == nil {
		j.pending = make(map[*cleanupJob]struct{})
	}
	j.pending[job] = struct{}{}
	job.timer = time.AfterFunc(j.Grace, func() { j.run(job) })
	j.mu.Unlock()

	return job.done
}

// Flush runs every scheduled cleanup now; used on shutdown.
func (j *Janitor) Flush() {
	j.mu.Lock()
	jobs := make([]*cleanupJob, 0, len(j.pending))
	for job := range j.pending {
		jobs = append(jobs, job)
	}
	j.mu.Unlock()

	for _, job := range jobs {
		job.timer.Stop()
		j.run(job)
	}
}

func (j *Janitor) run(job *cleanupJob) {
	job.once.Do(func() {
		for _, p := range job.paths {
			if err := RemoveIfExists(p); err != nil {
				log.Printf("[JANITOR] Could not remove %s: %v", p, err)
			}
		}
		j.mu.Lock()
		delete(j.pending, job)
		j.mu.Unlock()
		close(job.done)
	})
}

// RemoveIfExists deletes a file or directory tree; a missing path is not an error.
func RemoveIfExists(path string) error {
	if path == "" {
		return nil
	}
	return os.RemoveAll(path)
}

package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FilesystemOutput writes every message to <directory>/<id>.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput clears `dir` and recreates it.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}

// MemoryOutput keeps messages in memory, keyed by id.
type MemoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func NewMemoryOutput() *MemoryOutput {
	return &MemoryOutput{messages: map[string]string{}}
}

func (o *MemoryOutput) Write(id string, contents string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.messages[id] = contents
}

func (o *MemoryOutput) Get(id string) (string, bool) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	contents, ok := o.messages[id]
	return contents, ok
}

func (o *MemoryOutput) Len() int {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return len(o.messages)
}

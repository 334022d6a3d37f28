package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// datasetSuffix is the tail of every file in the Olist dump
const datasetSuffix = "_dataset.csv"

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// TableName derives the logical table name from the file name:
// "olist_orders_dataset.csv" -> "olist_orders", "translation.csv" -> "translation".
func (f FileInfo) TableName() string {
	return TableNameFromFile(f.Name)
}

// TableNameFromFile strips the dataset suffix, or failing that the .csv extension
func TableNameFromFile(name string) string {
	if strings.HasSuffix(name, datasetSuffix) {
		return strings.TrimSuffix(name, datasetSuffix)
	}
	return strings.TrimSuffix(name, ".csv")
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance. Relative directories
// passed to its methods resolve against basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindCSVFiles finds all CSV files in the specified directory, sorted by name
// so that every run visits tables in the same order.
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".csv") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

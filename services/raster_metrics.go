package services

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"geolayers/dtos"
	"geolayers/dtos/common"
	"geolayers/logger"
	"geolayers/utils"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// RasterMetrics is nil unless the rasters section is configured.
var RasterMetrics *rasterMetrics

// coverageWalker is the slice of the SFTP client the walk needs.
type coverageWalker interface {
	ReadDir(path string) ([]os.FileInfo, error)
}

type rasterMetrics struct {
	store   *common.RasterStore
	filters *utils.FilterSet
	dial    func() (coverageWalker, func(), error)
}

// NewRasterMetrics initializes the raster coverage counter for the
// configured GeoServer data host.
func NewRasterMetrics(store *common.RasterStore, filters *utils.FilterSet) {
	m := &rasterMetrics{
		store:   store,
		filters: filters,
	}
	m.dial = m.dialStore
	RasterMetrics = m
}

func (r *rasterMetrics) dialStore() (coverageWalker, func(), error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to locate home directory: %w", err)
	}

	hostKeys, err := knownhosts.New(filepath.Join(home, ".ssh", "known_hosts"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load known hosts: %w", err)
	}

	sshConfig := &ssh.ClientConfig{
		User:            r.store.User,
		Auth:            []ssh.AuthMethod{ssh.Password(r.store.Password)},
		HostKeyCallback: hostKeys,
		Timeout:         10 * time.Second,
	}

	sshClient, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", r.store.Host, r.store.Port), sshConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial %s: %w", r.store.Host, err)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, nil, fmt.Errorf("failed to open SFTP session on %s: %w", r.store.Host, err)
	}

	closer := func() {
		sftpClient.Close()
		sshClient.Close()
	}
	return sftpClient, closer, nil
}

// GetCounts walks the coverages directory of the data host and counts TIFF
// files per directory, pruning filtered directory names.
func (r *rasterMetrics) GetCounts() ([]dtos.CoverageCount, int, error) {
	walker, closeWalker, err := r.dial()
	if err != nil {
		return nil, 0, err
	}
	defer closeWalker()

	var coverages []dtos.CoverageCount
	root := path.Join(r.store.GeoserverDataDir, "coverages")

	total, err := r.walk(walker, root, &coverages)
	if err != nil {
		return nil, 0, err
	}

	return coverages, total, nil
}

// walk counts TIFF files under dir. Failures below the root are logged and
// skipped so one unreadable directory doesn't lose the rest of the tree.
func (r *rasterMetrics) walk(walker coverageWalker, dir string, coverages *[]dtos.CoverageCount) (int, error) {
	entries, err := walker.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	total := 0
	dirCount := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isTiff(entry.Name()) {
			dirCount++
		}
	}
	if dirCount > 0 {
		*coverages = append(*coverages, dtos.CoverageCount{Dir: dir, Tiffs: dirCount})
	}
	total += dirCount

	for _, entry := range entries {
		if !entry.IsDir() && entry.Mode()&os.ModeSymlink == 0 {
			continue
		}
		if r.filters.Matches(entry.Name()) {
			logger.Sugar.Debugf("Skipping filtered coverage directory %s", entry.Name())
			continue
		}

		sub, err := r.walk(walker, path.Join(dir, entry.Name()), coverages)
		if err != nil {
			logger.Sugar.Errorf("Failed to walk coverage directory: %v", err)
			continue
		}
		total += sub
	}

	return total, nil
}

func isTiff(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".tif" || ext == ".tiff"
}

package archive

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/dnswlt/egeria/internal/repository"
	"github.com/dnswlt/egeria/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentReads limits the number of archive files read in parallel.
const maxConcurrentReads = 8

// expandPaths returns the archive files named by paths. Paths with a YAML
// extension are files, all others are directories searched recursively.
func expandPaths(st store.Store, paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		ext := strings.ToLower(path.Ext(p))
		if ext == ".yml" || ext == ".yaml" {
			files = append(files, p)
			continue
		}
		dirFiles, err := store.YAMLFiles(st, p)
		if err != nil {
			return nil, fmt.Errorf("cannot list archives in %s: %w", p, err)
		}
		files = append(files, dirFiles...)
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// LoadAll reads the archives at paths concurrently. Of several archives
// with the same name, only the one with the highest version is returned.
// The result is sorted by archive name.
func LoadAll(ctx context.Context, st store.Store, paths []string, logger *zap.Logger) ([]*Archive, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	files, err := expandPaths(st, paths)
	if err != nil {
		return nil, err
	}

	archives := make([]*Archive, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := Read(st, f)
			if err != nil {
				return fmt.Errorf("failed to read archive %s: %w", f, err)
			}
			archives[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	latest := make(map[string]*Archive)
	for _, a := range archives {
		name := a.Header.Name
		prev, ok := latest[name]
		if !ok {
			latest[name] = a
			continue
		}
		switch c := CompareVersions(a, prev); {
		case c == 0:
			return nil, fmt.Errorf("archive %s version %s is defined in both %s and %s",
				name, a.Header.Version, prev.Path, a.Path)
		case c > 0:
			latest[name] = a
			prev, a = a, prev
		}
		logger.Info("Ignoring superseded archive",
			zap.String("name", name),
			zap.String("path", a.Path),
			zap.String("version", a.Header.Version),
			zap.String("latestVersion", prev.Header.Version))
	}

	result := make([]*Archive, 0, len(latest))
	for _, a := range latest {
		result = append(result, a)
	}
	slices.SortFunc(result, func(a, b *Archive) int {
		return strings.Compare(a.Header.Name, b.Header.Name)
	})
	logger.Debug("Loaded archives", zap.Int("files", len(files)), zap.Int("archives", len(result)))
	return result, nil
}

// ApplyAll applies the archives to repo in order.
func ApplyAll(repo *repository.Repository, archives []*Archive, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, a := range archives {
		if err := Apply(repo, a); err != nil {
			return err
		}
		logger.Info("Loaded archive",
			zap.String("name", a.Header.Name),
			zap.String("version", a.Header.Version),
			zap.String("path", a.Path),
			zap.Int("entities", len(a.Entities)),
			zap.Int("relationships", len(a.Relationships)))
	}
	return nil
}

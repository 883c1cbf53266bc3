package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driven"
	"github.com/haneul-labs/chaja-cli/internal/logger"
)

// Ensure Provider implements the interface.
var _ driven.DocumentProvider = (*Provider)(nil)

// listBuffer absorbs walk bursts so the walker rarely blocks on the
// consumer.
const listBuffer = 64

// Provider reads documents from a vault directory tree.
type Provider struct {
	root string
	exts map[string]bool
}

// New creates a provider over the vault root. Extensions filter which
// files count as documents; when empty the default note extensions
// apply.
func New(root string, extensions []string) *Provider {
	if len(extensions) == 0 {
		extensions = domain.DefaultSettings().Extensions
	}
	return &Provider{
		root: filepath.Clean(root),
		exts: extensionSet(extensions),
	}
}

func extensionSet(extensions []string) map[string]bool {
	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}

// Root returns the vault root path.
func (p *Provider) Root() string {
	return p.root
}

// Validate checks that the vault root exists and is a directory.
func (p *Provider) Validate(_ context.Context) error {
	info, err := os.Stat(p.root)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s does not exist", domain.ErrInvalidVaultPath, p.root)
	}
	if err != nil {
		return fmt.Errorf("stat vault root %s: %w", p.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidVaultPath, p.root)
	}
	return nil
}

// ListAll walks the vault and streams a ref for every indexable file.
// Hidden files and directories (dot-prefixed) are skipped. Both
// channels close when the walk finishes or ctx is cancelled.
func (p *Provider) ListAll(ctx context.Context) (<-chan domain.DocumentRef, <-chan error) {
	refs := make(chan domain.DocumentRef, listBuffer)
	errs := make(chan error, 1)

	go func() {
		defer close(refs)
		defer close(errs)

		if err := p.Validate(ctx); err != nil {
			errs <- err
			return
		}

		err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			if d.IsDir() {
				if path != p.root && hiddenName(d.Name()) {
					return fs.SkipDir
				}
				return nil
			}
			if !p.indexable(path) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				logger.Warn("Vault walk: skipping %s: %v", path, err)
				return nil
			}

			select {
			case refs <- refFor(path, info):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errs <- fmt.Errorf("walk vault %s: %w", p.root, err)
		}
	}()

	return refs, errs
}

// ReadContent returns the full text of one document. Paths outside the
// vault root are rejected.
func (p *Provider) ReadContent(_ context.Context, path string) (string, error) {
	resolved, err := p.resolve(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// resolve normalises a ref path against the root and rejects escapes.
func (p *Provider) resolve(path string) (string, error) {
	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(p.root, resolved)
	}
	resolved = filepath.Clean(resolved)

	if resolved != p.root && !strings.HasPrefix(resolved, p.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside the vault", domain.ErrInvalidInput, path)
	}
	return resolved, nil
}

// indexable reports whether a file path should be treated as a document.
func (p *Provider) indexable(path string) bool {
	base := filepath.Base(path)
	if hiddenName(base) {
		return false
	}
	return p.exts[strings.ToLower(filepath.Ext(base))]
}

// hiddenName reports dot-prefixed file or directory names.
func hiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}

// nameOf derives the display name: the base name without its extension.
func nameOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// refFor builds the engine-facing ref for one file.
func refFor(path string, info fs.FileInfo) domain.DocumentRef {
	return domain.DocumentRef{
		Path:       path,
		Name:       nameOf(path),
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}
}

package filesystem

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/logging"
	"github.com/arthur-debert/aisetup/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	sfs "github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

// Plan queues changes to one target path and applies them in order as a
// single synthfs pipeline. Steps run against the FS the plan was created
// with. The first failing step stops the run and its error is returned as is.
type Plan struct {
	fs     types.FS
	synth  *synthfs.SynthFS
	ops    []synthfs.Operation
	steps  []string
	failed error
}

// NewPlan creates an empty plan over fsys
func NewPlan(fsys types.FS) *Plan {
	return &Plan{fs: fsys, synth: synthfs.New()}
}

// Steps returns the queued step ids in execution order
func (p *Plan) Steps() []string {
	return p.steps
}

// Remove queues the removal of a file or symlink
func (p *Plan) Remove(path string) *Plan {
	return p.add("remove", path, func() error {
		if err := p.fs.Remove(path); err != nil {
			return errors.Wrapf(err, errors.ErrFileRemove, "cannot remove %s", path)
		}
		return nil
	})
}

// RemoveAll queues the removal of path and anything below it
func (p *Plan) RemoveAll(path string) *Plan {
	return p.add("remove_all", path, func() error {
		if err := p.fs.RemoveAll(path); err != nil {
			return errors.Wrapf(err, errors.ErrFileRemove, "cannot remove %s", path)
		}
		return nil
	})
}

// MkdirAll queues the creation of dir and its parents
func (p *Plan) MkdirAll(dir string, perm fs.FileMode) *Plan {
	return p.add("mkdir", dir, func() error {
		if err := p.fs.MkdirAll(dir, perm); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dir)
		}
		return nil
	})
}

// Symlink queues a link at path pointing to dest
func (p *Plan) Symlink(dest, path string) *Plan {
	return p.add("symlink", path, func() error {
		if err := p.fs.Symlink(dest, path); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s", path)
		}
		return nil
	})
}

// WriteFile queues an atomic write of data to path
func (p *Plan) WriteFile(path string, data []byte, perm fs.FileMode) *Plan {
	return p.add("write", path, func() error {
		if err := WriteFileAtomic(p.fs, path, data, perm); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
		}
		return nil
	})
}

func (p *Plan) add(kind, path string, step func() error) *Plan {
	id := fmt.Sprintf("%02d_%s_%s", len(p.ops), kind, path)
	p.steps = append(p.steps, id)
	p.ops = append(p.ops, p.synth.CustomOperationWithID(id, func(ctx context.Context, _ sfs.FileSystem) error {
		if p.failed != nil {
			return p.failed
		}
		if err := ctx.Err(); err != nil {
			p.failed = err
			return err
		}
		if err := step(); err != nil {
			p.failed = err
			return err
		}
		return nil
	}))
	return p
}

// Run applies the queued steps. An empty plan is a no-op.
func (p *Plan) Run(ctx context.Context) error {
	if len(p.ops) == 0 {
		return nil
	}
	logger := logging.GetLogger("filesystem")
	logger.Debug().Strs("steps", p.steps).Msg("Running filesystem plan")

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = false

	root := synthfs.NewPathAwareFileSystem(sfs.NewOSFileSystem("/"), "/").WithAbsolutePaths()
	_, err := synthfs.RunWithOptions(ctx, root, options, p.ops...)
	if p.failed != nil {
		return p.failed
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "filesystem plan failed")
	}
	return nil
}

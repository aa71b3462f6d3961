package platform

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/imdone/pkg/adapters/fs"
	"github.com/aretw0/imdone/pkg/adapters/memory"
	"github.com/aretw0/imdone/pkg/core"
)

// ErrUnknownAdapter is returned when WithAdapter names an unsupported adapter.
var ErrUnknownAdapter = errors.New("unknown adapter")

// ErrUnknownFormat is returned when WithFormat names an unsupported encoding.
var ErrUnknownFormat = errors.New("unknown format")

// New creates a ready-to-use note service and loads the collection.
//
//	svc, err := imdone.New("~/notes", imdone.WithFormat("yaml"))
//
// The URI argument is adapter-specific (a directory for "fs", ignored for "memory").
// A failed initial load is not fatal: the service starts empty and the
// failure is available through LastError and Notice.
func New(uri string, opts ...Option) (*core.Service, error) {
	o := parseOptions(opts)

	codec, err := codecFor(o.format)
	if err != nil {
		return nil, err
	}

	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	bufSize, _ := o.config["event_buffer"].(int)
	service := core.NewService(repo, core.Config{
		Logger:      o.logger,
		Codec:       codec,
		Clock:       o.clock,
		NewID:       o.newID,
		Timeout:     o.timeout,
		EventBuffer: bufSize,
	})

	if _, err := service.Load(context.Background()); err != nil {
		o.logger.Warn("initial load failed", "error", err)
	}

	return service, nil
}

// Init prepares the storage backend without loading any note.
// It resolves the vault path (applying the development sandbox) and
// creates the directories the adapter needs.
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := parseOptions(opts)

	if o.repository != nil {
		if err := o.repository.Initialize(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to initialize repository: %w", err)
		}
		return o.repository, nil
	}

	switch o.adapter {
	case "memory":
		return memory.NewStore(), nil
	case "fs", "":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAdapter, o.adapter)
	}

	codec, err := codecFor(o.format)
	if err != nil {
		return nil, err
	}

	readOnly, _ := o.config["read_only"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	forceTemp, _ := o.config["temp_dir"].(bool)

	devSafety := true
	if v, ok := o.config["dev_safety"].(bool); ok {
		devSafety = v
	}

	// Read-only runs inspect the real vault; the sandbox only guards writes.
	useTemp := forceTemp || (devSafety && !readOnly && IsDevRun())
	path := ResolveVaultPath(expandHome(uri), useTemp)
	if useTemp {
		o.logger.Warn("development run detected, using sandbox vault", "path", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path: %w", err)
	}

	systemDir, _ := o.config["system_dir"].(string)
	if systemDir == "" {
		systemDir = DefaultSystemDir
	}
	errHandler, _ := o.config["watcher_error_handler"].(func(error))

	store := fs.NewStore(fs.Config{
		Path:         absPath,
		MustExist:    mustExist,
		ReadOnly:     readOnly,
		Extension:    "." + codec.Name(),
		SystemDir:    systemDir,
		Logger:       o.logger,
		ErrorHandler: errHandler,
	})

	if err := store.Initialize(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize vault: %w", err)
	}

	o.logger.Debug("vault ready", "path", absPath, "read_only", readOnly)
	return store, nil
}

func codecFor(name string) (core.Codec, error) {
	if name == "" {
		name = "json"
	}
	codec, ok := core.DefaultCodecs()[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return codec, nil
}

// Package addrbook provides embedded runtime resources (help text, config
// template) and an overlay filesystem that checks local disk first, falling
// back to embedded.
package addrbook

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed templates/help.txt templates/config.yaml.template
var rawTemplates embed.FS

// Templates is the embedded templates filesystem with the "templates/" prefix stripped.
var Templates = mustSub(rawTemplates, "templates")

// Template file names inside Templates.
const (
	HelpFile           = "help.txt"
	ConfigTemplateFile = "config.yaml.template"
)

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// OverlayFS returns a filesystem that checks localDir on disk first,
// falling back to the embedded filesystem for files not found locally.
func OverlayFS(localDir string, embedded fs.FS) fs.FS {
	return overlayFS{localDir: localDir, embedded: embedded}
}

type overlayFS struct {
	localDir string
	embedded fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	if o.localDir != "" {
		f, err := os.Open(filepath.Join(o.localDir, name))
		if err == nil {
			return f, nil
		}
	}
	return o.embedded.Open(name)
}

// ReadTemplate reads name from localDir if present, else from the embedded templates.
func ReadTemplate(localDir, name string) (string, error) {
	data, err := fs.ReadFile(OverlayFS(localDir, Templates), name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

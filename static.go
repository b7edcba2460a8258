// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package echo

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
)

// StaticConfig defines the config for static handler.
type StaticConfig struct {
	// Root is the directory (or fs.FS root) from where the static content is served.
	Root string `json:"root"`

	// Filesystem is the source filesystem to serve Root from. Defaults to os.DirFS(".").
	Filesystem fs.FS `json:"-"`

	// Index is the list of index files to be searched and used when serving a directory.
	Index string `json:"index"`

	// Browse enables directory listing when no index file is found.
	Browse bool `json:"browse"`
}

// DefaultStaticConfig is the default static handler config.
var DefaultStaticConfig = StaticConfig{
	Index: "index.html",
}

// Static returns a handler that serves static content from the given root directory using
// the catch-all path value captured by the route it is attached to.
func Static(root string) HandlerFunc {
	c := DefaultStaticConfig
	c.Root = root
	return StaticWithConfig(c)
}

// StaticWithConfig returns a static handler built from config. See Static.
func StaticWithConfig(config StaticConfig) HandlerFunc {
	if config.Index == "" {
		config.Index = DefaultStaticConfig.Index
	}
	filesystem := config.Filesystem
	if filesystem == nil {
		filesystem = os.DirFS(".")
	}
	root := path.Clean(config.Root)

	return func(c *Context) error {
		p := c.ParamOr("*", "")
		name := path.Join(root, path.Clean("/"+p))

		fi, err := fs.Stat(filesystem, name)
		if err != nil {
			return ErrNotFound
		}
		if fi.IsDir() {
			if config.Browse {
				return browseDir(c, filesystem, name)
			}
			name = path.Join(name, config.Index)
		}
		return c.FileFS(name, filesystem)
	}
}

func browseDir(c *Context, filesystem fs.FS, name string) error {
	entries, err := fs.ReadDir(filesystem, name)
	if err != nil {
		return ErrNotFound
	}
	rw := c.Response()
	rw.Header().Set("Content-Type", "text/html; charset=UTF-8")
	rw.WriteHeader(http.StatusOK)
	if _, err := rw.Write([]byte("<pre>\n")); err != nil {
		return err
	}
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() {
			n += "/"
		}
		if _, err := rw.Write([]byte("<a href=\"" + n + "\">" + n + "</a>\n")); err != nil {
			return err
		}
	}
	_, err = rw.Write([]byte("</pre>\n"))
	return err
}

// MustSubFS returns an fs.FS rooted at fsRoot within currentFs, panicking if the subtree
// does not exist. Use it to strip an //go:embed directive's directory prefix before handing
// the result to Context.FileFS or StaticConfig.Filesystem.
func MustSubFS(currentFs fs.FS, fsRoot string) fs.FS {
	sub, err := fs.Sub(currentFs, fsRoot)
	if err != nil {
		panic(fmt.Sprintf("echo: failed to create sub FS rooted at %q: %v", fsRoot, err))
	}
	return sub
}

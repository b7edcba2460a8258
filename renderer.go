// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package echo

import (
	"io"
	"sync"

	"github.com/valyala/fasttemplate"
)

// Renderer is the interface that wraps the Render function.
type Renderer interface {
	Render(c *Context, w io.Writer, templateName string, data any) error
}

// TemplateRenderer is helper to ease creating renderers for `html/template` and `text/template` packages.
// Example usage:
//
//		e.Renderer = &echo.TemplateRenderer{
//			Template: template.Must(template.ParseGlob("templates/*.html")),
//		}
//
//	  e.Renderer = &echo.TemplateRenderer{
//			Template: template.Must(template.New("hello").Parse("Hello, {{.}}!")),
//		}
type TemplateRenderer struct {
	Template interface {
		ExecuteTemplate(wr io.Writer, name string, data any) error
	}
}

// Render renders the template with given data.
func (t *TemplateRenderer) Render(c *Context, w io.Writer, name string, data any) error {
	return t.Template.ExecuteTemplate(w, name, data)
}

// FastTemplateRenderer renders named, ${tag}-style templates with fasttemplate. It is
// considerably cheaper than html/template for simple substitution views (error pages, emails,
// small fragments) where html/template's contextual escaping isn't needed.
//
// Templates are compiled lazily on first use and cached; StartTag/EndTag default to "${" / "}".
type FastTemplateRenderer struct {
	Templates map[string]string
	StartTag  string
	EndTag    string

	mu    sync.Mutex
	cache map[string]*fasttemplate.Template
}

// Render looks up name, substitutes tags from data (expected to be a map[string]any or a type
// satisfying fasttemplate's TagFunc-compatible lookup), and writes the result to w.
func (t *FastTemplateRenderer) Render(c *Context, w io.Writer, name string, data any) error {
	tpl, err := t.compiled(name)
	if err != nil {
		return err
	}
	values, _ := data.(map[string]any)
	_, err = tpl.ExecuteFunc(w, func(w io.Writer, tag string) (int, error) {
		v, ok := values[tag]
		if !ok {
			return 0, nil
		}
		return io.WriteString(w, fmtTagValue(v))
	})
	return err
}

func (t *FastTemplateRenderer) compiled(name string) (*fasttemplate.Template, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cache == nil {
		t.cache = map[string]*fasttemplate.Template{}
	}
	if tpl, ok := t.cache[name]; ok {
		return tpl, nil
	}
	src, ok := t.Templates[name]
	if !ok {
		return nil, ErrNotFound
	}
	startTag, endTag := t.StartTag, t.EndTag
	if startTag == "" {
		startTag = "${"
	}
	if endTag == "" {
		endTag = "}"
	}
	tpl, err := fasttemplate.NewTemplate(src, startTag, endTag)
	if err != nil {
		return nil, err
	}
	t.cache[name] = tpl
	return tpl, nil
}

func fmtTagValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

// Package editor runs the read-modify-write cycle around the outline
// engine: load the stored text, parse it, edit one section and save the
// result conditionally on the version that was read.
package editor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/render"
	"github.com/dgallion1/docoutline/internal/store"
)

// Editor edits stored documents one section at a time.
type Editor struct {
	store    store.Store
	renderer render.Renderer
	log      *slog.Logger
}

func New(s store.Store, r render.Renderer, log *slog.Logger) *Editor {
	return &Editor{store: s, renderer: r, log: log}
}

// Outline is a parsed document together with the version it came from.
type Outline struct {
	Key     string
	Version int64
	Tree    *doctree.Tree
}

// Section is the raw text of one section plus a rendered preview.
type Section struct {
	Key     string `json:"key"`
	ID      string `json:"id"`
	Content string `json:"content"`
	HTML    string `json:"html,omitempty"`
	Version int64  `json:"version"`
}

// ReplaceResult is the outcome of a successful section replacement.
type ReplaceResult struct {
	Document store.Document
	// Tree is re-parsed from the saved text, so its IDs are unique and
	// match what the next read will produce.
	Tree *doctree.Tree
}

// Get returns the stored document.
func (e *Editor) Get(ctx context.Context, key string) (store.Document, error) {
	return e.store.Load(ctx, key)
}

// Put stores a whole document. expected follows store.Store.Save.
func (e *Editor) Put(ctx context.Context, key, content string, expected int64) (store.Document, error) {
	doc, err := e.store.Save(ctx, key, content, expected)
	if err != nil {
		return store.Document{}, err
	}
	e.log.Info("document saved", "doc", key, "version", doc.Version, "bytes", len(content))
	return doc, nil
}

// List returns every stored document.
func (e *Editor) List(ctx context.Context) ([]store.Document, error) {
	return e.store.List(ctx)
}

// Delete removes a document.
func (e *Editor) Delete(ctx context.Context, key string) error {
	if err := e.store.Delete(ctx, key); err != nil {
		return err
	}
	e.log.Info("document deleted", "doc", key)
	return nil
}

// Outline loads and parses a document.
func (e *Editor) Outline(ctx context.Context, key string) (Outline, error) {
	doc, err := e.store.Load(ctx, key)
	if err != nil {
		return Outline{}, err
	}
	tree, err := outline.Parse(doc.Content)
	if err != nil {
		return Outline{}, fmt.Errorf("parse %s: %w", key, err)
	}
	return Outline{Key: key, Version: doc.Version, Tree: tree}, nil
}

// Section returns the raw text of one section and its HTML preview.
func (e *Editor) Section(ctx context.Context, key string, id doctree.ID) (Section, error) {
	o, err := e.Outline(ctx, key)
	if err != nil {
		return Section{}, err
	}
	text, err := outline.SectionText(o.Tree, id)
	if err != nil {
		return Section{}, err
	}
	sec := Section{Key: key, ID: id.String(), Content: text, Version: o.Version}
	if e.renderer != nil {
		html, err := e.renderer.RenderHTML(text)
		if err != nil {
			e.log.Warn("section preview failed", "doc", key, "section", sec.ID, "error", err)
		} else {
			sec.HTML = html
		}
	}
	return sec, nil
}

// ReplaceSection swaps the section identified by id for edited and saves
// the document. When expected is not store.AnyVersion the save only
// succeeds if the stored version still equals it, so an edit made against
// an outline that has since changed fails with store.ErrVersionConflict
// instead of silently overwriting the other change.
func (e *Editor) ReplaceSection(ctx context.Context, key string, id doctree.ID, edited string, expected int64) (ReplaceResult, error) {
	log := e.log.With("doc", key, "section", id.String())

	o, err := e.Outline(ctx, key)
	if err != nil {
		return ReplaceResult{}, err
	}
	if expected != store.AnyVersion && expected != o.Version {
		log.Info("stale section edit", "expected", expected, "current", o.Version)
		return ReplaceResult{}, fmt.Errorf("replace %s in %s: %w", id, key, store.ErrVersionConflict)
	}

	_, text, err := outline.ReplaceSection(o.Tree, id, edited)
	if err != nil {
		log.Info("section not found")
		return ReplaceResult{}, err
	}

	doc, err := e.store.Save(ctx, key, text, o.Version)
	if err != nil {
		log.Warn("section save failed", "error", err)
		return ReplaceResult{}, err
	}

	tree, err := outline.Parse(doc.Content)
	if err != nil {
		return ReplaceResult{}, fmt.Errorf("parse %s: %w", key, err)
	}
	log.Info("section replaced", "version", doc.Version)
	return ReplaceResult{Document: doc, Tree: tree}, nil
}

// Preview renders arbitrary text without touching the store.
func (e *Editor) Preview(text string) (string, error) {
	if e.renderer == nil {
		return "", fmt.Errorf("no renderer configured")
	}
	return e.renderer.RenderHTML(text)
}

// Package mcptools exposes the section editor as MCP tools.
package mcptools

import (
	"context"
	"fmt"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/editor"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tools binds tool handlers to an editor.
type Tools struct {
	editor *editor.Editor
}

func New(ed *editor.Editor) *Tools {
	return &Tools{editor: ed}
}

// Register adds every outline tool to server.
func (t *Tools) Register(server *mcp.Server) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_documents",
			Description: "Lists stored documents with their current versions.",
		},
		t.ListDocuments,
	)
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_outline",
			Description: "Returns the heading outline of a document as XML. Every heading carries a dotted section id (e.g. 1.2) usable with get_section and replace_section.",
		},
		t.GetOutline,
	)
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_section",
			Description: "Returns the raw text of one section: its heading line and everything nested under it.",
		},
		t.GetSection,
	)
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "replace_section",
			Description: "Replaces one section with new text and saves the document. Pass the version returned by get_outline or get_section to reject the edit if the document changed in between. Empty content deletes the section.",
		},
		t.ReplaceSection,
	)
}

type ListDocumentsInput struct{}

type DocumentInfo struct {
	Key     string `json:"key"`
	Version int64  `json:"version"`
	Bytes   int    `json:"bytes"`
}

type ListDocumentsOutput struct {
	Documents []DocumentInfo `json:"documents"`
}

func (t *Tools) ListDocuments(ctx context.Context, req *mcp.CallToolRequest, input ListDocumentsInput) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := t.editor.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, fmt.Errorf("list documents: %w", err)
	}
	out := ListDocumentsOutput{Documents: make([]DocumentInfo, 0, len(docs))}
	for _, d := range docs {
		out.Documents = append(out.Documents, DocumentInfo{Key: d.Key, Version: d.Version, Bytes: len(d.Content)})
	}
	return nil, out, nil
}

type GetOutlineInput struct {
	Key string `json:"key" jsonschema:"document key"`
}

type GetOutlineOutput struct {
	Key     string   `json:"key"`
	Version int64    `json:"version"`
	IDs     []string `json:"ids"`
	XML     string   `json:"xml"`
}

func (t *Tools) GetOutline(ctx context.Context, req *mcp.CallToolRequest, input GetOutlineInput) (*mcp.CallToolResult, GetOutlineOutput, error) {
	o, err := t.editor.Outline(ctx, input.Key)
	if err != nil {
		return nil, GetOutlineOutput{}, err
	}
	xml, err := outline.RenderXML(o.Tree, true)
	if err != nil {
		return nil, GetOutlineOutput{}, err
	}
	ids := o.Tree.IDs()
	if ids == nil {
		ids = []string{}
	}
	return nil, GetOutlineOutput{Key: o.Key, Version: o.Version, IDs: ids, XML: string(xml)}, nil
}

type GetSectionInput struct {
	Key string `json:"key" jsonschema:"document key"`
	ID  string `json:"id" jsonschema:"dotted section id from get_outline, e.g. 1.2"`
}

type GetSectionOutput struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Version int64  `json:"version"`
}

func (t *Tools) GetSection(ctx context.Context, req *mcp.CallToolRequest, input GetSectionInput) (*mcp.CallToolResult, GetSectionOutput, error) {
	id, err := doctree.ParseID(input.ID)
	if err != nil {
		return nil, GetSectionOutput{}, err
	}
	sec, err := t.editor.Section(ctx, input.Key, id)
	if err != nil {
		return nil, GetSectionOutput{}, err
	}
	return nil, GetSectionOutput{ID: sec.ID, Content: sec.Content, Version: sec.Version}, nil
}

type ReplaceSectionInput struct {
	Key     string `json:"key" jsonschema:"document key"`
	ID      string `json:"id" jsonschema:"dotted section id to replace"`
	Content string `json:"content" jsonschema:"replacement text; headings are numbered from the replaced section's position"`
	Version *int64 `json:"version,omitempty" jsonschema:"document version the edit was made against; omit to overwrite unconditionally"`
}

type ReplaceSectionOutput struct {
	Key     string   `json:"key"`
	Version int64    `json:"version"`
	IDs     []string `json:"ids"`
}

func (t *Tools) ReplaceSection(ctx context.Context, req *mcp.CallToolRequest, input ReplaceSectionInput) (*mcp.CallToolResult, ReplaceSectionOutput, error) {
	id, err := doctree.ParseID(input.ID)
	if err != nil {
		return nil, ReplaceSectionOutput{}, err
	}
	expected := store.AnyVersion
	if input.Version != nil {
		expected = *input.Version
	}
	res, err := t.editor.ReplaceSection(ctx, input.Key, id, input.Content, expected)
	if err != nil {
		return nil, ReplaceSectionOutput{}, err
	}
	ids := res.Tree.IDs()
	if ids == nil {
		ids = []string{}
	}
	return nil, ReplaceSectionOutput{Key: input.Key, Version: res.Document.Version, IDs: ids}, nil
}

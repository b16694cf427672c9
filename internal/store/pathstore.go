package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/pathstore"
)

// PathstoreStore keeps each document as one pathstore node under prefix.
// Pathstore has no conditional write, so the version check is a read
// followed by a write and two racing writers can both pass it.
type PathstoreStore struct {
	client    *pathstore.Client
	prefix    string
	listLimit int
}

// DefaultListLimit is the most documents a pathstore prefix scan returns
// in one List call. Pathstore scans have no cursor to page with.
const DefaultListLimit = 1000

// ErrListTruncated is returned by List when the prefix holds more
// documents than one scan returns.
var ErrListTruncated = errors.New("document list truncated")

type pathstoreValue struct {
	Content   string    `json:"content"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewPathstoreStore(client *pathstore.Client, prefix string) *PathstoreStore {
	return &PathstoreStore{client: client, prefix: strings.Trim(prefix, "/"), listLimit: DefaultListLimit}
}

func (s *PathstoreStore) path(key string) string {
	return s.prefix + "/" + key
}

func (s *PathstoreStore) Load(ctx context.Context, key string) (Document, error) {
	node, err := s.client.GetNode(ctx, s.path(key))
	if err != nil {
		return Document{}, fmt.Errorf("load %s: %w", key, err)
	}
	if node == nil {
		return Document{}, fmt.Errorf("load %s: %w", key, ErrNotFound)
	}
	var v pathstoreValue
	if err := json.Unmarshal(node.Value, &v); err != nil {
		return Document{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return Document{Key: key, Content: v.Content, Version: v.Version, UpdatedAt: v.UpdatedAt}, nil
}

func (s *PathstoreStore) Save(ctx context.Context, key, content string, expected int64) (Document, error) {
	if !ValidKey(key) {
		return Document{}, fmt.Errorf("save %q: %w", key, ErrInvalidKey)
	}
	cur, err := s.Load(ctx, key)
	exists := err == nil
	if err != nil && !isNotFound(err) {
		return Document{}, err
	}
	if err := checkVersion(exists, cur.Version, expected); err != nil {
		return Document{}, fmt.Errorf("save %s: %w", key, err)
	}

	doc := Document{
		Key:       key,
		Content:   content,
		Version:   cur.Version + 1,
		UpdatedAt: time.Now().UTC(),
	}
	err = s.client.PutNode(ctx, s.path(key), pathstore.NodeRequest{
		Value: pathstoreValue{
			Content:   doc.Content,
			Version:   doc.Version,
			UpdatedAt: doc.UpdatedAt,
		},
		MergeMode: "replace",
		Source:    "docoutline:" + key,
	})
	if err != nil {
		return Document{}, fmt.Errorf("save %s: %w", key, err)
	}
	return doc, nil
}

func (s *PathstoreStore) List(ctx context.Context) ([]Document, error) {
	nodes, err := s.client.ListChildren(ctx, s.prefix, s.listLimit+1)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if len(nodes) > s.listLimit {
		return nil, fmt.Errorf("list documents: more than %d under %s: %w", s.listLimit, s.prefix, ErrListTruncated)
	}
	docs := make([]Document, 0, len(nodes))
	for _, n := range nodes {
		var v pathstoreValue
		if err := json.Unmarshal(n.Value, &v); err != nil {
			continue
		}
		docs = append(docs, Document{Key: s.keyOf(n.Key), Content: v.Content, Version: v.Version, UpdatedAt: v.UpdatedAt})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })
	return docs, nil
}

// keyOf strips the store prefix from a key path returned by a prefix
// scan. Pathstore may report paths dot-separated.
func (s *PathstoreStore) keyOf(keyPath string) string {
	for _, p := range []string{s.prefix + "/", strings.ReplaceAll(s.prefix, "/", ".") + "."} {
		if strings.HasPrefix(keyPath, p) {
			return keyPath[len(p):]
		}
	}
	return keyPath
}

func (s *PathstoreStore) Delete(ctx context.Context, key string) error {
	found, err := s.client.DeleteNode(ctx, s.path(key), false)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if !found {
		return fmt.Errorf("delete %s: %w", key, ErrNotFound)
	}
	return nil
}

func (s *PathstoreStore) Close() error {
	s.client.Close()
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

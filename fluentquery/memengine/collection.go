package memengine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/btree"
	"github.com/google/uuid"
)

const (
	defaultIdentityField = "id"
	btreeDegree          = 32
)

var ErrEmptyIdentityField = errors.New("empty identity field supplied")
var ErrInvalidIdentity = errors.New("identity must be a string or a number")
var ErrDuplicateIdentity = errors.New("duplicate identity")
var ErrNormalizingDocumentFailed = errors.New("normalizing document failed")

type entry struct {
	id  any
	doc Document
}

// Collection is a set of documents ordered by their identity field.
// It is safe for concurrent use. Stored documents are never mutated, readers get copies.
type Collection struct {
	identityField string
	tree          *btree.BTreeG[*entry]
	mu            sync.RWMutex
}

// CollectionOption defines a functional option for configuring Collection.
type CollectionOption func(*Collection) error

// WithIdentityField sets the field that identifies a document, "id" by default.
func WithIdentityField(field string) CollectionOption {
	return func(c *Collection) error {
		if field == "" {
			return ErrEmptyIdentityField
		}

		c.identityField = field

		return nil
	}
}

// NewCollection creates an empty Collection.
func NewCollection(options ...CollectionOption) (*Collection, error) {
	c := &Collection{
		identityField: defaultIdentityField,
		tree: btree.NewG(btreeDegree, func(a, b *entry) bool {
			return compareValues(a.id, b.id) < 0
		}),
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// IdentityField returns the field that identifies a document.
func (c *Collection) IdentityField() string {
	return c.identityField
}

// Insert normalizes and stores the documents and returns their identities.
// Documents without identity get a UUIDv7 string. Either all documents are stored or none.
func (c *Collection) Insert(docs ...Document) ([]any, error) {
	entries := make([]*entry, 0, len(docs))
	seen := make(map[any]struct{}, len(docs))

	for i, doc := range docs {
		normalized, err := normalizeDocument(doc)
		if err != nil {
			return nil, errors.Join(ErrNormalizingDocumentFailed, err)
		}

		id, err := c.identityOf(normalized)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}

		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateIdentity, id)
		}
		seen[id] = struct{}{}

		entries = append(entries, &entry{id: id, doc: normalized})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range entries {
		if c.tree.Has(e) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateIdentity, e.id)
		}
	}

	ids := make([]any, len(entries))
	for i, e := range entries {
		c.tree.ReplaceOrInsert(e)
		ids[i] = e.id
	}

	return ids, nil
}

// Get returns a copy of the document with id.
func (c *Collection) Get(id any) (Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	found, ok := c.tree.Get(&entry{id: normalizeValue(id)})
	if !ok {
		return nil, false
	}

	return cloneDocument(found.doc), true
}

// Delete removes the document with id and reports whether it existed.
func (c *Collection) Delete(id any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.tree.Delete(&entry{id: normalizeValue(id)})

	return ok
}

// Len returns the number of stored documents.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.tree.Len()
}

// snapshot returns the stored documents in identity order. They must not be mutated.
func (c *Collection) snapshot() []Document {
	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := make([]Document, 0, c.tree.Len())
	c.tree.Ascend(func(e *entry) bool {
		docs = append(docs, e.doc)
		return true
	})

	return docs
}

func (c *Collection) identityOf(doc Document) (any, error) {
	id := doc[c.identityField]

	switch id.(type) {
	case string, float64:
		return id, nil
	case nil:
		generated, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}

		doc[c.identityField] = generated.String()

		return doc[c.identityField], nil
	default:
		return nil, ErrInvalidIdentity
	}
}

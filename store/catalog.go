// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/danielhkuo/boardroom/models"
)

// Catalog holds the reference lists shown next to the board: documents,
// compliance items and tenders. Only document uploads and the tender
// viewed flag change after start-up.
type Catalog struct {
	mu sync.RWMutex

	documents  []models.Document
	compliance []models.ComplianceItem
	tenders    []models.Tender
}

func NewCatalog(documents []models.Document, compliance []models.ComplianceItem, tenders []models.Tender) *Catalog {
	c := &Catalog{
		documents:  make([]models.Document, len(documents)),
		compliance: make([]models.ComplianceItem, len(compliance)),
		tenders:    make([]models.Tender, len(tenders)),
	}
	copy(c.documents, documents)
	copy(c.compliance, compliance)
	for i, t := range tenders {
		c.tenders[i] = t.Clone()
	}
	return c
}

// Documents returns the documents linked to meetingID, in upload order.
func (c *Catalog) Documents(meetingID string) []models.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := []models.Document{}
	for _, d := range c.documents {
		if d.MeetingID != nil && *d.MeetingID == meetingID {
			out = append(out, d)
		}
	}
	return out
}

// AllDocuments returns every document, linked or not, in upload order.
func (c *Catalog) AllDocuments() []models.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Document, len(c.documents))
	copy(out, c.documents)
	return out
}

// AddDocuments links docs to meetingID and stores them. Documents without an
// id get one.
func (c *Catalog) AddDocuments(meetingID string, docs []models.Document) []models.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Document, 0, len(docs))
	for _, d := range docs {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		id := meetingID
		d.MeetingID = &id
		c.documents = append(c.documents, d)
		out = append(out, d)
	}
	return out
}

func (c *Catalog) Compliance() []models.ComplianceItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.ComplianceItem, len(c.compliance))
	copy(out, c.compliance)
	return out
}

func (c *Catalog) Tenders() []models.Tender {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Tender, len(c.tenders))
	for i, t := range c.tenders {
		out[i] = t.Clone()
	}
	return out
}

// MarkTenderViewed sets the viewed flag. Marking twice is harmless.
func (c *Catalog) MarkTenderViewed(id string) (models.Tender, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id = strings.TrimSpace(id)
	for i := range c.tenders {
		if c.tenders[i].ID == id {
			c.tenders[i].IsViewed = true
			return c.tenders[i].Clone(), nil
		}
	}
	return models.Tender{}, fmt.Errorf("%w: %s", ErrTenderNotFound, id)
}

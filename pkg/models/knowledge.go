package models

import "time"

type KnowledgeDocument struct {
	ID        int       `json:"id" db:"id" goqu:"skipinsert"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at" goqu:"skipinsert"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" goqu:"skipinsert"`
}

func (d *KnowledgeDocument) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   d.ID,
		ResourceType: "knowledge_document",
	}
}

// DocumentNote is the private annotation attached to a document.
type DocumentNote struct {
	DocumentID int       `json:"document_id" db:"document_id"`
	Content    string    `json:"content" db:"content"`
	Author     string    `json:"author" db:"author"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

package knowledge

type DocumentRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content"`
	IsActive *bool  `json:"is_active"`
}

type UpdateDocumentRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content *string `json:"content"`
}

func (r *UpdateDocumentRequest) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if r.Title != nil {
		changes["title"] = *r.Title
	}
	if r.Content != nil {
		changes["content"] = *r.Content
	}
	return changes
}

type ActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type NoteRequest struct {
	Content string `json:"content"`
}

type DocumentFilter struct {
	ActiveOnly bool `form:"active"`
}

// AssistantContext is the markdown bundle of every active document handed
// to the assistant.
type AssistantContext struct {
	Documents int    `json:"documents"`
	Content   string `json:"content"`
}

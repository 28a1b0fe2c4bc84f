package models

// CreateLinkRequest represents the request body for creating a short link
type CreateLinkRequest struct {
	Redirect    string  `json:"redirect" binding:"required,url"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description,omitempty"`
}

// UpdateLinkRequest represents the request body for a partial link update.
// Absent fields are left unchanged.
type UpdateLinkRequest struct {
	Redirect    *string `json:"redirect,omitempty" binding:"omitempty,url"`
	Title       *string `json:"title,omitempty" binding:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
}

// ListLinksQuery represents the query parameters for listing links
type ListLinksQuery struct {
	Page   int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit  int    `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
	Filter string `form:"filter"`
}

package dto

import "mime/multipart"

// CreateTodoForm is the form body for POST /todos.
// Emptiness is checked by the service after trimming, so no binding rules here.
type CreateTodoForm struct {
	Content string `form:"content"`
}

// UploadImageForm is the multipart body for POST /upload.
type UploadImageForm struct {
	Title       string                `form:"title"`
	Description string                `form:"description"`
	File        *multipart.FileHeader `form:"file"`
}

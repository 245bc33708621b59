package domain

// Todo is a single to-do item.
// Only IsCompleted changes after creation.
type Todo struct {
	ID          int64  `json:"id"`
	Content     string `json:"content"`
	IsCompleted bool   `json:"is_completed"`
}

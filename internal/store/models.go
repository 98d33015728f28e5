package store

import "fmt"

type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrgID       int64  `json:"org_id"`
}

type Photo struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	Embedding []float32 `json:"-"` // unit-normalized, stored as JSON text
	Norm      float64   `json:"norm"`
}

// FileName is the name of the photo's binary asset under the event's
// media directory.
func (p Photo) FileName() string {
	return fmt.Sprintf("%d.png", p.ID)
}

// ScoredPhoto is a Photo annotated with its similarity to a query
// vector, as returned by SimilarPhotos.
type ScoredPhoto struct {
	Photo
	Similarity float64 `json:"similarity"`
}

const (
	ContextTypeDocument = "document"
	ContextTypeMain     = "main_context"
)

type Context struct {
	ID          int64     `json:"id"`
	EventID     int64     `json:"event_id"`
	DocID       *int64    `json:"doc_id"` // nil for main-context chunks
	ContextType string    `json:"context_type"`
	Content     string    `json:"content"`
	Embedding   []float32 `json:"-"`
}

type ScoredContext struct {
	Context
	Similarity float64 `json:"similarity"`
}

type Document struct {
	ID      int64  `json:"id"`
	EventID int64  `json:"event_id"`
	Title   string `json:"title"`
	FileExt string `json:"file_ext"`
}

type Post struct {
	ID       int64   `json:"id"`
	EventID  int64   `json:"event_id"`
	Caption  string  `json:"caption"`
	ImageIDs []int64 `json:"image_ids"`
	UserID   int64   `json:"user_id"`
}

// PostUpdate carries the updatable fields of a Post; nil fields are
// left untouched.
type PostUpdate struct {
	EventID  *int64
	Caption  *string
	ImageIDs []int64
}

type Feedback struct {
	ID      int64  `json:"id"`
	EventID int64  `json:"event_id"`
	PostID  int64  `json:"post_id"`
	Comment string `json:"feedback_comment"`
	Status  string `json:"feedback_status"`
}

type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Role names seeded into the roles table.
const (
	RolePhotographer    = "photographer"
	RoleContentManager  = "content manager"
	RoleContentReviewer = "content reviewer"
)

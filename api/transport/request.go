package transport

import "time"

type SignUpRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// TaskRequest creates a new task. Omitted status/priority fall back to
// pending/medium.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Resources   string `json:"resources"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

// TaskPatchRequest updates an existing task. Nil fields are left untouched;
// whether completionDate/userResponse apply depends on who sends the patch.
type TaskPatchRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Resources      *string    `json:"resources"`
	DueDate        *string    `json:"dueDate"`
	Priority       *string    `json:"priority"`
	Status         *string    `json:"status"`
	CompletionDate *time.Time `json:"completionDate"`
	UserResponse   *string    `json:"userResponse"`
}

type TaskCompleteRequest struct {
	Response string `json:"response"`
}

type DocumentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
}

type DocumentPatchRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Type         *string `json:"type"`
	Status       *string `json:"status"`
	DueDate      *string `json:"dueDate"`
	Priority     *string `json:"priority"`
	UserResponse *string `json:"userResponse"`
	AdminNote    *string `json:"adminNote"`
}

type DocumentReviewRequest struct {
	Verdict string `json:"verdict"`
	Note    string `json:"note"`
}

type ContentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
}

type ContentPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	Category    *string `json:"category"`
}

type UserPatchRequest struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}

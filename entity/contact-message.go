package entity

// ContactMessage is a submission from the marketing site contact form.
type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty"`
	Message string `json:"message" validate:"required"`
}

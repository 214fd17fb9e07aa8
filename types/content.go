package types

import "time"

// Project is a portfolio entry owned by the user who created it.
type Project struct {
	ID int `json:"id" db:"id"`

	// UserID is the owner. It is stamped from the authenticated caller on
	// creation and never changes afterwards.
	UserID int `json:"user" db:"user_id"`

	Name         string `json:"name" db:"name" validate:"required,max=200"`
	Description  string `json:"description" db:"description"`
	Type         string `json:"type" db:"type" validate:"max=100"`
	Status       string `json:"status" db:"status" validate:"max=100"`
	Technologies string `json:"technologies" db:"technologies"`
	Completion   string `json:"completion" db:"completion" validate:"max=50"`

	// Link and Image are optional; nil serializes as null.
	Link  *string `json:"link" db:"link" validate:"omitempty,url"`
	Image *string `json:"image" db:"image"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BlogPost is an article owned by its author.
type BlogPost struct {
	ID int `json:"id" db:"id"`

	// AuthorID is the owner, with the same lifecycle as Project.UserID.
	AuthorID int `json:"author" db:"author_id"`

	Title   string `json:"title" db:"title" validate:"required,max=200"`
	Slug    string `json:"slug" db:"slug" validate:"required,slug,max=200"`
	Content string `json:"content" db:"content" validate:"required"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ContactMessage is an inbound message left through the contact form.
type ContactMessage struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" validate:"required,max=100"`
	Email     string    `json:"email" db:"email" validate:"required,email"`
	Subject   string    `json:"subject" db:"subject" validate:"required,max=200"`
	Message   string    `json:"message" db:"message" validate:"required"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

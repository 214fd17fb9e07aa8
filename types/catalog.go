package types

// About is the public "about me" section of the site.
type About struct {
	ID           int     `json:"id" db:"id"`
	Name         string  `json:"name" db:"name" validate:"required,max=100"`
	Bio          string  `json:"bio" db:"bio"`
	ProfileImage *string `json:"profile_image" db:"profile_image"`
	Skills       string  `json:"skills" db:"skills"`
}

// SkillCategory groups skills. Reads embed the category's skills.
type SkillCategory struct {
	ID     int     `json:"id" db:"id"`
	Name   string  `json:"name" db:"name" validate:"required,max=100"`
	Skills []Skill `json:"skills" db:"-"`
}

// Skill is a single skill with a proficiency level from 0 to 100.
type Skill struct {
	ID         int    `json:"id" db:"id"`
	Name       string `json:"name" db:"name" validate:"required,max=100"`
	Level      int    `json:"level" db:"level" validate:"min=0,max=100"`
	CategoryID int    `json:"category" db:"category_id" validate:"required,gt=0"`
}

// Certification types accepted by the catalog.
const (
	CertificationAWS   = "aws"
	CertificationALX   = "alx"
	CertificationOther = "other"
)

// Certification is an earned or in-progress certificate.
type Certification struct {
	ID         int    `json:"id" db:"id"`
	Title      string `json:"title" db:"title" validate:"required,max=200"`
	Issuer     string `json:"issuer" db:"issuer" validate:"required,max=200"`
	Date       string `json:"date" db:"date" validate:"required,datetime=2006-01-02"`
	InProgress bool   `json:"in_progress" db:"in_progress"`
	Badge      string `json:"badge" db:"badge"`
	Type       string `json:"type" db:"type" validate:"required,oneof=aws alx other"`
}

// Language is a spoken language and its proficiency
// (Native, Fluent, Proficient, Intermediate or Basic).
type Language struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name" validate:"required,max=100"`
	Proficiency string `json:"proficiency" db:"proficiency" validate:"required,oneof=Native Fluent Proficient Intermediate Basic"`
}

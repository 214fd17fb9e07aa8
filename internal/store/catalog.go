package store

import (
	"context"

	"github.com/khalfanathman/portfolio-api/internal/db"
	"github.com/khalfanathman/portfolio-api/types"
)

// SkillCategoryRepository handles persistence for skill categories. Reads
// attach the skills of each category.
type SkillCategoryRepository struct {
	db db.DBTX
}

func NewSkillCategoryRepository(db db.DBTX) *SkillCategoryRepository {
	return &SkillCategoryRepository{db: db}
}

func (r *SkillCategoryRepository) List(ctx context.Context) ([]types.SkillCategory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM skill_categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]types.SkillCategory, 0)
	index := make(map[int]int)
	for rows.Next() {
		category := types.SkillCategory{Skills: []types.Skill{}}
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		index[category.ID] = len(categories)
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	skills, err := NewSkillRepository(r.db).List(ctx)
	if err != nil {
		return nil, err
	}
	for _, skill := range skills {
		if i, ok := index[skill.CategoryID]; ok {
			categories[i].Skills = append(categories[i].Skills, skill)
		}
	}
	return categories, nil
}

func (r *SkillCategoryRepository) Get(ctx context.Context, id int) (types.SkillCategory, error) {
	category := types.SkillCategory{Skills: []types.Skill{}}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM skill_categories WHERE id = $1`, id).
		Scan(&category.ID, &category.Name)
	if err != nil {
		return types.SkillCategory{}, notFound(err)
	}

	skills, err := NewSkillRepository(r.db).ListByCategory(ctx, id)
	if err != nil {
		return types.SkillCategory{}, err
	}
	category.Skills = skills
	return category, nil
}

func (r *SkillCategoryRepository) Create(ctx context.Context, category types.SkillCategory) (types.SkillCategory, error) {
	const query = `INSERT INTO skill_categories (name) VALUES ($1) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, category.Name).Scan(&category.ID); err != nil {
		return types.SkillCategory{}, translateError(err)
	}
	category.Skills = []types.Skill{}
	return category, nil
}

func (r *SkillCategoryRepository) Update(ctx context.Context, category types.SkillCategory) (types.SkillCategory, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE skill_categories SET name = $1 WHERE id = $2`, category.Name, category.ID)
	if err != nil {
		return types.SkillCategory{}, translateError(err)
	}
	if err := requireAffected(result); err != nil {
		return types.SkillCategory{}, err
	}
	return category, nil
}

// Delete removes a category; its skills are removed by the foreign key cascade.
func (r *SkillCategoryRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM skill_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// SkillRepository handles persistence for skills.
type SkillRepository struct {
	db db.DBTX
}

func NewSkillRepository(db db.DBTX) *SkillRepository {
	return &SkillRepository{db: db}
}

func (r *SkillRepository) list(ctx context.Context, query string, args ...any) ([]types.Skill, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]types.Skill, 0)
	for rows.Next() {
		var skill types.Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.Level, &skill.CategoryID); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *SkillRepository) List(ctx context.Context) ([]types.Skill, error) {
	return r.list(ctx, `SELECT id, name, level, category_id FROM skills ORDER BY id`)
}

func (r *SkillRepository) ListByCategory(ctx context.Context, categoryID int) ([]types.Skill, error) {
	return r.list(ctx, `SELECT id, name, level, category_id FROM skills WHERE category_id = $1 ORDER BY id`, categoryID)
}

func (r *SkillRepository) Get(ctx context.Context, id int) (types.Skill, error) {
	var skill types.Skill
	err := r.db.QueryRowContext(ctx, `SELECT id, name, level, category_id FROM skills WHERE id = $1`, id).
		Scan(&skill.ID, &skill.Name, &skill.Level, &skill.CategoryID)
	if err != nil {
		return types.Skill{}, notFound(err)
	}
	return skill, nil
}

func (r *SkillRepository) Create(ctx context.Context, skill types.Skill) (types.Skill, error) {
	const query = `INSERT INTO skills (name, level, category_id) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, skill.Name, skill.Level, skill.CategoryID).Scan(&skill.ID); err != nil {
		return types.Skill{}, translateError(err)
	}
	return skill, nil
}

func (r *SkillRepository) Update(ctx context.Context, skill types.Skill) (types.Skill, error) {
	const query = `UPDATE skills SET name = $1, level = $2, category_id = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, skill.Name, skill.Level, skill.CategoryID, skill.ID)
	if err != nil {
		return types.Skill{}, translateError(err)
	}
	if err := requireAffected(result); err != nil {
		return types.Skill{}, err
	}
	return skill, nil
}

func (r *SkillRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// CertificationRepository handles persistence for certifications.
type CertificationRepository struct {
	db db.DBTX
}

func NewCertificationRepository(db db.DBTX) *CertificationRepository {
	return &CertificationRepository{db: db}
}

const certificationColumns = `id, title, issuer, to_char(date, 'YYYY-MM-DD'), in_progress, badge, type`

func scanCertification(row rowScanner) (types.Certification, error) {
	var cert types.Certification
	err := row.Scan(&cert.ID, &cert.Title, &cert.Issuer, &cert.Date, &cert.InProgress, &cert.Badge, &cert.Type)
	return cert, err
}

func (r *CertificationRepository) List(ctx context.Context) ([]types.Certification, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+certificationColumns+` FROM certifications ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	certs := make([]types.Certification, 0)
	for rows.Next() {
		cert, err := scanCertification(rows)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *CertificationRepository) Get(ctx context.Context, id int) (types.Certification, error) {
	cert, err := scanCertification(r.db.QueryRowContext(ctx, `SELECT `+certificationColumns+` FROM certifications WHERE id = $1`, id))
	if err != nil {
		return types.Certification{}, notFound(err)
	}
	return cert, nil
}

func (r *CertificationRepository) Create(ctx context.Context, cert types.Certification) (types.Certification, error) {
	const query = `
		INSERT INTO certifications (title, issuer, date, in_progress, badge, type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, cert.Title, cert.Issuer, cert.Date, cert.InProgress, cert.Badge, cert.Type).
		Scan(&cert.ID); err != nil {
		return types.Certification{}, translateError(err)
	}
	return cert, nil
}

func (r *CertificationRepository) Update(ctx context.Context, cert types.Certification) (types.Certification, error) {
	const query = `
		UPDATE certifications
		SET title = $1,
			issuer = $2,
			date = $3,
			in_progress = $4,
			badge = $5,
			type = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query, cert.Title, cert.Issuer, cert.Date, cert.InProgress, cert.Badge, cert.Type, cert.ID)
	if err != nil {
		return types.Certification{}, translateError(err)
	}
	if err := requireAffected(result); err != nil {
		return types.Certification{}, err
	}
	return cert, nil
}

func (r *CertificationRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM certifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// LanguageRepository handles persistence for languages.
type LanguageRepository struct {
	db db.DBTX
}

func NewLanguageRepository(db db.DBTX) *LanguageRepository {
	return &LanguageRepository{db: db}
}

func (r *LanguageRepository) List(ctx context.Context) ([]types.Language, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, proficiency FROM languages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	languages := make([]types.Language, 0)
	for rows.Next() {
		var language types.Language
		if err := rows.Scan(&language.ID, &language.Name, &language.Proficiency); err != nil {
			return nil, err
		}
		languages = append(languages, language)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return languages, nil
}

func (r *LanguageRepository) Get(ctx context.Context, id int) (types.Language, error) {
	var language types.Language
	err := r.db.QueryRowContext(ctx, `SELECT id, name, proficiency FROM languages WHERE id = $1`, id).
		Scan(&language.ID, &language.Name, &language.Proficiency)
	if err != nil {
		return types.Language{}, notFound(err)
	}
	return language, nil
}

func (r *LanguageRepository) Create(ctx context.Context, language types.Language) (types.Language, error) {
	const query = `INSERT INTO languages (name, proficiency) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, language.Name, language.Proficiency).Scan(&language.ID); err != nil {
		return types.Language{}, translateError(err)
	}
	return language, nil
}

func (r *LanguageRepository) Update(ctx context.Context, language types.Language) (types.Language, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE languages SET name = $1, proficiency = $2 WHERE id = $3`,
		language.Name, language.Proficiency, language.ID)
	if err != nil {
		return types.Language{}, translateError(err)
	}
	if err := requireAffected(result); err != nil {
		return types.Language{}, err
	}
	return language, nil
}

func (r *LanguageRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM languages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

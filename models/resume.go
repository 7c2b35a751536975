package models

import (
	"database/sql"
	"time"
)

// Resume is the plain-text resume the answer generator grounds on.
type Resume struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ResumeModel struct {
	DB *sql.DB
}

func NewResumeModel(db *sql.DB) *ResumeModel {
	return &ResumeModel{DB: db}
}

func (m *ResumeModel) GetByUserID(userID int) (*Resume, error) {
	resume := &Resume{}
	query := `
		SELECT id, user_id, COALESCE(display_name, '') as display_name,
		       COALESCE(resume_text, '') as resume_text, created_at, updated_at
		FROM resumes WHERE user_id = $1
	`
	err := m.DB.QueryRow(query, userID).Scan(
		&resume.ID, &resume.UserID, &resume.DisplayName, &resume.Text,
		&resume.CreatedAt, &resume.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return resume, nil
}

func (m *ResumeModel) Save(userID int, displayName, text string) error {
	var existingID int
	err := m.DB.QueryRow("SELECT id FROM resumes WHERE user_id = $1", userID).Scan(&existingID)

	if err == sql.ErrNoRows {
		_, err = m.DB.Exec(
			"INSERT INTO resumes (user_id, display_name, resume_text, created_at, updated_at) VALUES ($1, $2, $3, NOW(), NOW())",
			userID, displayName, text)
		return err
	}
	if err != nil {
		return err
	}

	_, err = m.DB.Exec(
		"UPDATE resumes SET display_name = $1, resume_text = $2, updated_at = NOW() WHERE user_id = $3",
		displayName, text, userID)
	return err
}

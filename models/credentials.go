package models

import (
	"database/sql"
	"strings"
	"time"
)

// APICredentials selects the answer-generation provider and holds its keys.
// Both keys can be stored; Key returns the one the active provider needs.
type APICredentials struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Provider  string    `json:"provider"`
	OpenAIKey string    `json:"-"`
	GroqKey   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActiveProvider normalizes the stored provider: anything other than "groq"
// means OpenAI.
func (c *APICredentials) ActiveProvider() string {
	if strings.ToLower(strings.TrimSpace(c.Provider)) == "groq" {
		return "groq"
	}
	return "openai"
}

func (c *APICredentials) Key() string {
	if c.ActiveProvider() == "groq" {
		return strings.TrimSpace(c.GroqKey)
	}
	return strings.TrimSpace(c.OpenAIKey)
}

type CredentialsModel struct {
	DB *sql.DB
}

func NewCredentialsModel(db *sql.DB) *CredentialsModel {
	return &CredentialsModel{DB: db}
}

func (m *CredentialsModel) GetByUserID(userID int) (*APICredentials, error) {
	creds := &APICredentials{}
	query := `
		SELECT id, user_id, COALESCE(provider, 'openai') as provider,
		       COALESCE(openai_key, '') as openai_key,
		       COALESCE(groq_key, '') as groq_key,
		       created_at, updated_at
		FROM api_credentials WHERE user_id = $1
	`
	err := m.DB.QueryRow(query, userID).Scan(
		&creds.ID, &creds.UserID, &creds.Provider,
		&creds.OpenAIKey, &creds.GroqKey,
		&creds.CreatedAt, &creds.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return creds, nil
}

func (m *CredentialsModel) Upsert(c *APICredentials) error {
	query := `
		INSERT INTO api_credentials (user_id, provider, openai_key, groq_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			provider = EXCLUDED.provider,
			openai_key = EXCLUDED.openai_key,
			groq_key = EXCLUDED.groq_key,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`
	return m.DB.QueryRow(query, c.UserID, c.ActiveProvider(), c.OpenAIKey, c.GroqKey, time.Now()).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

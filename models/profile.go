package models

import (
	"database/sql"
	"strings"
	"time"
)

// CandidateProfile holds the fixed set of personal answers form fields can
// be prefilled from. All values are stored as text; forms want strings.
type CandidateProfile struct {
	ID                int       `json:"id"`
	UserID            int       `json:"user_id"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	FullName          string    `json:"fullName"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	YearsExperience   string    `json:"yearsExperience"`
	Linkedin          string    `json:"linkedin"`
	CurrentCompany    string    `json:"currentCompany"`
	CurrentRole       string    `json:"currentRole"`
	CurrentSalary     string    `json:"currentSalary"`
	CurrentCGPA       string    `json:"currentCGPA"`
	TenthPercentage   string    `json:"tenthPercentage"`
	TenthBoard        string    `json:"tenthBoard"`
	TenthStream       string    `json:"tenthStream"`
	TwelfthPercentage string    `json:"twelfthPercentage"`
	TwelfthBoard      string    `json:"twelfthBoard"`
	TwelfthStream     string    `json:"twelfthStream"`
	RollNumber        string    `json:"rollNumber"`
	Age               string    `json:"age"`
	Gender            string    `json:"gender"`
	Institute         string    `json:"institute"`
	Degree            string    `json:"degree"`
	Branch            string    `json:"branch"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Value resolves a profile key to its stored value, empty when absent. The
// fullName and currentCompanyAndRole keys are derived when composable from
// their parts.
func (p *CandidateProfile) Value(key string) string {
	switch key {
	case "fullName":
		first := strings.TrimSpace(p.FirstName)
		last := strings.TrimSpace(p.LastName)
		if first != "" || last != "" {
			return strings.TrimSpace(first + " " + last)
		}
		return strings.TrimSpace(p.FullName)
	case "currentCompanyAndRole":
		company := strings.TrimSpace(p.CurrentCompany)
		role := strings.TrimSpace(p.CurrentRole)
		if company != "" && role != "" {
			return company + ", " + role
		}
		if company != "" {
			return company
		}
		return role
	case "firstName":
		return strings.TrimSpace(p.FirstName)
	case "lastName":
		return strings.TrimSpace(p.LastName)
	case "email":
		return strings.TrimSpace(p.Email)
	case "phone":
		return strings.TrimSpace(p.Phone)
	case "yearsExperience":
		return strings.TrimSpace(p.YearsExperience)
	case "linkedin":
		return strings.TrimSpace(p.Linkedin)
	case "currentCompany":
		return strings.TrimSpace(p.CurrentCompany)
	case "currentRole":
		return strings.TrimSpace(p.CurrentRole)
	case "currentSalary":
		return strings.TrimSpace(p.CurrentSalary)
	case "currentCGPA":
		return strings.TrimSpace(p.CurrentCGPA)
	case "tenthPercentage":
		return strings.TrimSpace(p.TenthPercentage)
	case "tenthBoard":
		return strings.TrimSpace(p.TenthBoard)
	case "tenthStream":
		return strings.TrimSpace(p.TenthStream)
	case "twelfthPercentage":
		return strings.TrimSpace(p.TwelfthPercentage)
	case "twelfthBoard":
		return strings.TrimSpace(p.TwelfthBoard)
	case "twelfthStream":
		return strings.TrimSpace(p.TwelfthStream)
	case "rollNumber":
		return strings.TrimSpace(p.RollNumber)
	case "age":
		return strings.TrimSpace(p.Age)
	case "gender":
		return strings.TrimSpace(p.Gender)
	case "institute":
		return strings.TrimSpace(p.Institute)
	case "degree":
		return strings.TrimSpace(p.Degree)
	case "branch":
		return strings.TrimSpace(p.Branch)
	}
	return ""
}

type ProfileModel struct {
	DB *sql.DB
}

func NewProfileModel(db *sql.DB) *ProfileModel {
	return &ProfileModel{DB: db}
}

func (m *ProfileModel) GetByUserID(userID int) (*CandidateProfile, error) {
	profile := &CandidateProfile{}
	query := `
		SELECT id, user_id,
		       COALESCE(first_name, '') as first_name,
		       COALESCE(last_name, '') as last_name,
		       COALESCE(full_name, '') as full_name,
		       COALESCE(email, '') as email,
		       COALESCE(phone, '') as phone,
		       COALESCE(years_experience, '') as years_experience,
		       COALESCE(linkedin, '') as linkedin,
		       COALESCE(current_company, '') as current_company,
		       COALESCE(current_role, '') as current_role,
		       COALESCE(current_salary, '') as current_salary,
		       COALESCE(current_cgpa, '') as current_cgpa,
		       COALESCE(tenth_percentage, '') as tenth_percentage,
		       COALESCE(tenth_board, '') as tenth_board,
		       COALESCE(tenth_stream, '') as tenth_stream,
		       COALESCE(twelfth_percentage, '') as twelfth_percentage,
		       COALESCE(twelfth_board, '') as twelfth_board,
		       COALESCE(twelfth_stream, '') as twelfth_stream,
		       COALESCE(roll_number, '') as roll_number,
		       COALESCE(age, '') as age,
		       COALESCE(gender, '') as gender,
		       COALESCE(institute, '') as institute,
		       COALESCE(degree, '') as degree,
		       COALESCE(branch, '') as branch,
		       created_at, updated_at
		FROM candidate_profiles WHERE user_id = $1
	`
	err := m.DB.QueryRow(query, userID).Scan(
		&profile.ID, &profile.UserID,
		&profile.FirstName, &profile.LastName, &profile.FullName,
		&profile.Email, &profile.Phone,
		&profile.YearsExperience, &profile.Linkedin,
		&profile.CurrentCompany, &profile.CurrentRole, &profile.CurrentSalary,
		&profile.CurrentCGPA,
		&profile.TenthPercentage, &profile.TenthBoard, &profile.TenthStream,
		&profile.TwelfthPercentage, &profile.TwelfthBoard, &profile.TwelfthStream,
		&profile.RollNumber, &profile.Age, &profile.Gender,
		&profile.Institute, &profile.Degree, &profile.Branch,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (m *ProfileModel) Upsert(p *CandidateProfile) error {
	query := `
		INSERT INTO candidate_profiles (
			user_id, first_name, last_name, full_name, email, phone,
			years_experience, linkedin, current_company, current_role,
			current_salary, current_cgpa,
			tenth_percentage, tenth_board, tenth_stream,
			twelfth_percentage, twelfth_board, twelfth_stream,
			roll_number, age, gender, institute, degree, branch,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		          $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $25)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			years_experience = EXCLUDED.years_experience,
			linkedin = EXCLUDED.linkedin,
			current_company = EXCLUDED.current_company,
			current_role = EXCLUDED.current_role,
			current_salary = EXCLUDED.current_salary,
			current_cgpa = EXCLUDED.current_cgpa,
			tenth_percentage = EXCLUDED.tenth_percentage,
			tenth_board = EXCLUDED.tenth_board,
			tenth_stream = EXCLUDED.tenth_stream,
			twelfth_percentage = EXCLUDED.twelfth_percentage,
			twelfth_board = EXCLUDED.twelfth_board,
			twelfth_stream = EXCLUDED.twelfth_stream,
			roll_number = EXCLUDED.roll_number,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			institute = EXCLUDED.institute,
			degree = EXCLUDED.degree,
			branch = EXCLUDED.branch,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`
	return m.DB.QueryRow(query,
		p.UserID, p.FirstName, p.LastName, p.FullName, p.Email, p.Phone,
		p.YearsExperience, p.Linkedin, p.CurrentCompany, p.CurrentRole,
		p.CurrentSalary, p.CurrentCGPA,
		p.TenthPercentage, p.TenthBoard, p.TenthStream,
		p.TwelfthPercentage, p.TwelfthBoard, p.TwelfthStream,
		p.RollNumber, p.Age, p.Gender, p.Institute, p.Degree, p.Branch,
		time.Now(),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

package controllers

import (
	"database/sql"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"jobfill/models"
	"jobfill/parsers"
	"jobfill/utils"
)

type ProfileController struct {
	profileModel     *models.ProfileModel
	resumeModel      *models.ResumeModel
	credentialsModel *models.CredentialsModel
	docxExtractor    *parsers.DocxExtractor
}

func NewProfileController(profileModel *models.ProfileModel, resumeModel *models.ResumeModel, credentialsModel *models.CredentialsModel) *ProfileController {
	return &ProfileController{
		profileModel:     profileModel,
		resumeModel:      resumeModel,
		credentialsModel: credentialsModel,
		docxExtractor:    parsers.NewDocxExtractor(),
	}
}

func (c *ProfileController) GetProfile(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	profile, err := c.profileModel.GetByUserID(userID)
	if err == sql.ErrNoRows {
		utils.SuccessResponse(ctx, http.StatusOK, "No profile saved yet", &models.CandidateProfile{UserID: userID})
		return
	}
	if err != nil {
		utils.InternalServerError(ctx, "Failed to load profile", err)
		return
	}
	utils.SuccessResponse(ctx, http.StatusOK, "Profile loaded", profile)
}

func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	var profile models.CandidateProfile
	if err := ctx.ShouldBindJSON(&profile); err != nil {
		utils.BadRequestError(ctx, "Invalid profile data", err)
		return
	}
	profile.UserID = userID

	if err := c.profileModel.Upsert(&profile); err != nil {
		utils.InternalServerError(ctx, "Failed to save profile", err)
		return
	}
	utils.SuccessResponse(ctx, http.StatusOK, "Profile saved", profile)
}

func (c *ProfileController) GetResume(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	resume, err := c.resumeModel.GetByUserID(userID)
	if err == sql.ErrNoRows {
		utils.SuccessResponse(ctx, http.StatusOK, "No resume saved yet", &models.Resume{UserID: userID})
		return
	}
	if err != nil {
		utils.InternalServerError(ctx, "Failed to load resume", err)
		return
	}
	utils.SuccessResponse(ctx, http.StatusOK, "Resume loaded", resume)
}

type resumeRequest struct {
	DisplayName string `json:"display_name"`
	Text        string `json:"text" binding:"required"`
}

// UpdateResume accepts either a JSON body with the resume text or a
// multipart upload of a .docx file that gets extracted server-side.
func (c *ProfileController) UpdateResume(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	if file, err := ctx.FormFile("resume"); err == nil {
		if !strings.HasSuffix(strings.ToLower(file.Filename), ".docx") {
			utils.BadRequestError(ctx, "Only .docx resumes are supported for upload", nil)
			return
		}
		tempPath := filepath.Join(os.TempDir(), filepath.Base(file.Filename))
		if err := ctx.SaveUploadedFile(file, tempPath); err != nil {
			utils.InternalServerError(ctx, "Failed to store uploaded file", err)
			return
		}
		defer os.Remove(tempPath)

		text, err := c.docxExtractor.ExtractText(tempPath)
		if err != nil {
			utils.BadRequestError(ctx, "Failed to extract resume text", err)
			return
		}

		displayName := resumeDisplayName(file.Filename)
		if err := c.resumeModel.Save(userID, displayName, text); err != nil {
			utils.InternalServerError(ctx, "Failed to save resume", err)
			return
		}
		utils.SuccessResponse(ctx, http.StatusOK, "Resume uploaded", gin.H{"display_name": displayName})
		return
	}

	var req resumeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(ctx, "Invalid resume data", err)
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = "Resume"
	}
	if err := c.resumeModel.Save(userID, req.DisplayName, req.Text); err != nil {
		utils.InternalServerError(ctx, "Failed to save resume", err)
		return
	}
	utils.SuccessResponse(ctx, http.StatusOK, "Resume saved", gin.H{"display_name": req.DisplayName})
}

// resumeDisplayName turns "john_doe-resume.docx" into "John Doe Resume".
func resumeDisplayName(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	name = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "Resume"
	}
	return cases.Title(language.English).String(name)
}

type credentialsRequest struct {
	Provider  string `json:"provider"`
	OpenAIKey string `json:"openai_key"`
	GroqKey   string `json:"groq_key"`
}

func (c *ProfileController) UpdateCredentials(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	var req credentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(ctx, "Invalid credentials data", err)
		return
	}

	creds := &models.APICredentials{
		UserID:    userID,
		Provider:  req.Provider,
		OpenAIKey: req.OpenAIKey,
		GroqKey:   req.GroqKey,
	}
	if err := c.credentialsModel.Upsert(creds); err != nil {
		utils.InternalServerError(ctx, "Failed to save credentials", err)
		return
	}
	utils.SuccessResponse(ctx, http.StatusOK, "Credentials saved", gin.H{"provider": creds.ActiveProvider()})
}

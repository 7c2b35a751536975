package controllers

import (
	"database/sql"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"jobfill/config"
	"jobfill/models"
	"jobfill/services"
	"jobfill/utils"
)

type AutofillController struct {
	browser          *services.BrowserService
	profileModel     *models.ProfileModel
	resumeModel      *models.ResumeModel
	credentialsModel *models.CredentialsModel
	s3Service        *services.S3Service
	fallbackLLM      config.LLMConfig
}

func NewAutofillController(browser *services.BrowserService, profileModel *models.ProfileModel, resumeModel *models.ResumeModel, credentialsModel *models.CredentialsModel, s3Service *services.S3Service, fallbackLLM config.LLMConfig) *AutofillController {
	return &AutofillController{
		browser:          browser,
		profileModel:     profileModel,
		resumeModel:      resumeModel,
		credentialsModel: credentialsModel,
		s3Service:        s3Service,
		fallbackLLM:      fallbackLLM,
	}
}

type AutofillRequest struct {
	URL string `json:"url" binding:"required"`
}

type AutofillResponse struct {
	Success       bool     `json:"success"`
	Filled        int      `json:"filled"`
	Total         int      `json:"total"`
	Errors        []string `json:"errors,omitempty"`
	ScreenshotKey string   `json:"screenshot_key,omitempty"`
}

// Fill opens the form URL, discovers its fields and fills them from the
// user's profile and resume, then captures a screenshot of the result.
func (c *AutofillController) Fill(ctx *gin.Context) {
	userID := ctx.GetInt("userID")

	var req AutofillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequestError(ctx, "Invalid request data", err)
		return
	}
	if u, err := url.Parse(req.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		utils.BadRequestError(ctx, "URL must be http or https", nil)
		return
	}

	profile, err := c.profileModel.GetByUserID(userID)
	if err == sql.ErrNoRows {
		profile = &models.CandidateProfile{UserID: userID}
	} else if err != nil {
		utils.InternalServerError(ctx, "Failed to load profile", err)
		return
	}

	resumeText := ""
	if resume, err := c.resumeModel.GetByUserID(userID); err == nil {
		resumeText = resume.Text
	}

	// Stored per-user credentials win; the server-level key is a fallback.
	var gen services.AnswerGenerator
	if creds, err := c.credentialsModel.GetByUserID(userID); err == nil && creds.Key() != "" {
		gen = services.NewLLMClient(creds.ActiveProvider(), creds.Key())
	} else if c.fallbackLLM.Key() != "" {
		gen = services.NewLLMClient(c.fallbackLLM.Provider, c.fallbackLLM.Key())
	}

	page, err := c.browser.OpenPage(req.URL)
	if err != nil {
		utils.InternalServerError(ctx, "Failed to open form page", err)
		return
	}
	defer page.Close()

	fields := services.DiscoverFields(page)
	injector := services.NewValueInjector(page)
	orchestrator := services.NewFillOrchestrator(injector, gen)
	result := orchestrator.Fill(fields, profile, resumeText)

	screenshotKey := ""
	if c.s3Service != nil {
		if data, err := c.browser.CapturePage(page); err == nil {
			if key, err := c.s3Service.UploadScreenshot(data, userID); err == nil {
				screenshotKey = key
			} else {
				utils.LogWarn("Screenshot upload failed", map[string]interface{}{"error": err.Error()})
			}
		} else {
			utils.LogWarn("Screenshot capture failed", map[string]interface{}{"error": err.Error()})
		}
	}

	ctx.JSON(http.StatusOK, AutofillResponse{
		Success:       len(result.Errors) == 0,
		Filled:        result.Filled,
		Total:         result.Total,
		Errors:        result.Errors,
		ScreenshotKey: screenshotKey,
	})
}

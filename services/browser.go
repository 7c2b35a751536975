package services

import (
	"fmt"
	"log"

	"github.com/playwright-community/playwright-go"
)

// BrowserService owns the playwright runtime and a single Chromium instance;
// each fill run gets its own page.
type BrowserService struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewBrowserService(headless bool) (*BrowserService, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args: []string{
			"--no-sandbox",
			"--disable-blink-features=AutomationControlled",
			"--disable-extensions",
			"--disable-plugins-discovery",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &BrowserService{pw: pw, browser: browser}, nil
}

// OpenPage navigates a fresh page to the application form and waits for the
// network to settle so script-rendered widgets are present.
func (s *BrowserService) OpenPage(formURL string) (playwright.Page, error) {
	page, err := s.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	log.Printf("Navigating to application form: %s", formURL)
	_, err = page.Goto(formURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(30000),
	})
	if err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to load form page: %w", err)
	}
	return page, nil
}

// CapturePage takes a full-page screenshot and returns the PNG bytes.
func (s *BrowserService) CapturePage(page playwright.Page) ([]byte, error) {
	data, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}
	return data, nil
}

func (s *BrowserService) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.pw != nil {
		if stopErr := s.pw.Stop(); err == nil {
			err = stopErr
		}
	}
	return err
}

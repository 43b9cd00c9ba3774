package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"time"

	config "github.com/anjiri1684/mentor_connect/configs"
	"github.com/anjiri1684/mentor_connect/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:embed templates/progress_report.html
var reportTemplates embed.FS

var reportTemplate = template.Must(template.ParseFS(reportTemplates, "templates/progress_report.html"))

type reportData struct {
	Username         string
	GeneratedOn      string
	Streak           int
	ActiveDays       int
	ModulesCompleted int64
	TotalResources   int64
	QuizScores       []QuizScore
}

func renderReportHTML(p *Profile, at time.Time) (string, error) {
	data := reportData{
		Username:         p.User.Username,
		GeneratedOn:      at.Format("January 2, 2006"),
		Streak:           p.Streak,
		ActiveDays:       p.ActiveDays,
		ModulesCompleted: p.ModulesCompletedCount,
		TotalResources:   p.TotalResources,
		QuizScores:       p.QuizScores,
	}
	var out bytes.Buffer
	if err := reportTemplate.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

type ReportService struct {
	db       *gorm.DB
	profiles *ProfileService
	render   func(ctx context.Context, html string) ([]byte, error)
	upload   func(ctx context.Context, pdf []byte, studentID uuid.UUID) (string, error)
}

func NewReportService(db *gorm.DB, profiles *ProfileService) *ReportService {
	return &ReportService{
		db:       db,
		profiles: profiles,
		render:   generatePDFFromHTML,
		upload:   uploadToCloudinary,
	}
}

// Generate renders the student's progress report to PDF, stores it on
// Cloudinary and records it.
func (s *ReportService) Generate(ctx context.Context, student *models.User) (*models.ProgressReport, error) {
	if !student.IsStudent() {
		return nil, fmt.Errorf("progress reports are only available for students")
	}
	profile, err := s.profiles.Build(ctx, student)
	if err != nil {
		return nil, fmt.Errorf("build profile: %w", err)
	}

	now := time.Now().UTC()
	html, err := renderReportHTML(profile, now)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	pdf, err := s.render(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	url, err := s.upload(ctx, pdf, student.ID)
	if err != nil {
		return nil, fmt.Errorf("upload report: %w", err)
	}

	report := &models.ProgressReport{
		ID:          uuid.New(),
		StudentID:   student.ID,
		Streak:      profile.Streak,
		ActiveDays:  profile.ActiveDays,
		ReportURL:   url,
		GeneratedAt: now,
	}
	if err := s.db.WithContext(ctx).Omit("Student").Create(report).Error; err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	log.Printf("✅ Generated progress report for student %s", student.ID)
	return report, nil
}

func (s *ReportService) List(ctx context.Context, studentID uuid.UUID) ([]models.ProgressReport, error) {
	var reports []models.ProgressReport
	err := s.db.WithContext(ctx).Where("student_id = ?", studentID).Order("generated_at DESC").Find(&reports).Error
	return reports, err
}

func generatePDFFromHTML(parent context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, 30*time.Second)
	defer cancelTimeout()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadToCloudinary(parent context.Context, fileBytes []byte, studentID uuid.UUID) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(parent, 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("%s_%s", studentID, uuid.New().String()),
		Folder:       "mentor_connect_reports",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}

package handlers

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nnypa/endorsement_service/internal/dto"
	"github.com/nnypa/endorsement_service/internal/helper/utils"
	"github.com/nnypa/endorsement_service/internal/services"
	pkgutils "github.com/nnypa/endorsement_service/pkg/utils"
)

const maxUploadBytes = 12 * 1024 * 1024 // 12MB, matches the service limit

// Multipart file fields accepted on submission, keyed by doc type.
var documentFields = []string{
	"cac_document",
	"business_plan",
	"financial_statements",
	"id_document",
	"other",
}

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

// POST /api/applications
// multipart/form-data: intake fields + optional document files
func (h *ApplicationHandler) Submit(ctx *fiber.Ctx) error {
	userID, _ := ctx.Locals("userID").(uint)

	input := dto.ApplicationSubmit{
		ApplicationType:     ctx.FormValue("application_type"),
		BusinessName:        ctx.FormValue("business_name"),
		BusinessType:        ctx.FormValue("business_type"),
		BusinessSector:      ctx.FormValue("business_sector"),
		BusinessDescription: ctx.FormValue("business_description"),
		BusinessState:       ctx.FormValue("business_state"),
		BusinessLGA:         ctx.FormValue("business_lga"),
		BusinessAddress:     ctx.FormValue("business_address"),

		RegistrationNumber:  optionalFormValue(ctx, "registration_number"),
		NumberOfEmployees:   optionalFormValue(ctx, "number_of_employees"),
		AnnualRevenueRange:  optionalFormValue(ctx, "annual_revenue_range"),
		WebsiteURL:          optionalFormValue(ctx, "website_url"),
		SocialMediaLinks:    optionalFormValue(ctx, "social_media_links"),
		BusinessGoals:       optionalFormValue(ctx, "business_goals"),
		ExpectedImpact:      optionalFormValue(ctx, "expected_impact"),
		EmploymentPlan:      optionalFormValue(ctx, "employment_plan"),
		FundingRequirements: optionalFormValue(ctx, "funding_requirements"),

		AdditionalCertifications: optionalFormValue(ctx, "additional_certifications"),
	}

	if years := strings.TrimSpace(ctx.FormValue("years_in_operation")); years != "" {
		n, err := strconv.Atoi(years)
		if err != nil || n < 0 {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "years_in_operation must be a non-negative number")
		}
		input.YearsInOperation = &n
	}

	form, err := ctx.MultipartForm()
	if err == nil && form != nil {
		for _, field := range documentFields {
			for _, fh := range form.File[field] {
				file, err := readMultipartFile(fh, field)
				if err != nil {
					return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
				}
				input.Files = append(input.Files, *file)
			}
		}
	}

	res, err := h.svc.Submit(ctx.Context(), userID, input)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, res)
}

// GET /api/applications
func (h *ApplicationHandler) ListOwn(ctx *fiber.Ctx) error {
	userID, _ := ctx.Locals("userID").(uint)

	apps, err := h.svc.ListOwn(userID)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, apps)
}

// GET /api/applications/:appID
func (h *ApplicationHandler) Get(ctx *fiber.Ctx) error {
	userID, _ := ctx.Locals("userID").(uint)

	appID, err := strconv.ParseUint(ctx.Params("appID"), 10, 32)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid application id")
	}

	app, err := h.svc.GetApplication(userID, uint(appID))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, app)
}

func optionalFormValue(ctx *fiber.Ctx, key string) *string {
	v := strings.TrimSpace(ctx.FormValue(key))
	if v == "" {
		return nil
	}
	return &v
}

func readMultipartFile(fh *multipart.FileHeader, docType string) (*dto.FileInput, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := pkgutils.ReadAllLimit(f, maxUploadBytes)
	if err != nil {
		return nil, err
	}

	return &dto.FileInput{
		Filename: fh.Filename,
		DocType:  docType,
		MimeType: fh.Header.Get("Content-Type"),
		Bytes:    b,
	}, nil
}

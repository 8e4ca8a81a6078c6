package http

import (
	"net/http"

	domain "csei-backend/internal/domain/prospect"
	"csei-backend/internal/usecase/prospect"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ProspectHandler struct{ uc *prospect.Usecase }

func NewProspectHandler(uc *prospect.Usecase) *ProspectHandler { return &ProspectHandler{uc: uc} }

var (
	prospectRequired = []string{
		"referrerId", "prospectName", "dateOfBirth", "firstAddressLine", "city",
		"country", "firstTelephoneLine", "email", "emergencyContact", "emergencyEmail",
		"emergencyPhonenumber", "monthlyCommitment", "swornStatement", "telegramContact",
	}
	reviewRequired = []string{"status"}
)

type submitProspectReq struct {
	ReferrerID           string          `json:"referrerId" validate:"max=50"`
	Name                 string          `json:"prospectName" validate:"max=50"`
	Surname              string          `json:"prospectSurname" validate:"max=50"`
	DateOfBirth          string          `json:"dateOfBirth" validate:"pastdate"`
	FirstAddressLine     string          `json:"firstAddressLine" validate:"max=50"`
	SecondAddressLine    string          `json:"secondAddressLine" validate:"max=50"`
	City                 string          `json:"city" validate:"max=50"`
	Country              string          `json:"country" validate:"max=50"`
	FirstTelephoneLine   string          `json:"firstTelephoneLine" validate:"max=50"`
	SecondTelephoneLine  string          `json:"secondTelephoneLine" validate:"max=20"`
	Email                string          `json:"email" validate:"email,max=100"`
	EmergencyContact     string          `json:"emergencyContact" validate:"max=50"`
	EmergencyPhonenumber string          `json:"emergencyPhonenumber" validate:"max=20"`
	EmergencyEmail       string          `json:"emergencyEmail" validate:"email,max=100"`
	MonthlyCommitment    decimal.Decimal `json:"monthlyCommitment" validate:"dnonneg,dec2"`
	SwornStatement       bool            `json:"swornStatement"`
	TelegramContact      string          `json:"telegramContact" validate:"max=50"`
}

func (h *ProspectHandler) Submit(c echo.Context) error {
	var req submitProspectReq
	if err := bindRequired(c, &req, prospectRequired); err != nil {
		return respondError(c, err)
	}
	dob, _ := parseDate(req.DateOfBirth) // checked by pastdate
	res, err := h.uc.Submit(c.Request().Context(), prospect.SubmitInput{
		ReferrerID:           req.ReferrerID,
		Name:                 req.Name,
		Surname:              req.Surname,
		DateOfBirth:          dob.UTC(),
		FirstAddressLine:     req.FirstAddressLine,
		SecondAddressLine:    req.SecondAddressLine,
		City:                 req.City,
		Country:              req.Country,
		FirstTelephoneLine:   req.FirstTelephoneLine,
		SecondTelephoneLine:  req.SecondTelephoneLine,
		Email:                req.Email,
		EmergencyContact:     req.EmergencyContact,
		EmergencyPhonenumber: req.EmergencyPhonenumber,
		EmergencyEmail:       req.EmergencyEmail,
		MonthlyCommitment:    req.MonthlyCommitment,
		SwornStatement:       req.SwornStatement,
		TelegramContact:      req.TelegramContact,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

type reviewProspectReq struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func (h *ProspectHandler) Review(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req reviewProspectReq
	if err := bindRequired(c, &req, reviewRequired); err != nil {
		return respondError(c, err)
	}
	res, err := h.uc.Review(c.Request().Context(), prospect.ReviewInput{
		ProspectID: c.Param("id"),
		Status:     domain.Status(req.Status),
		Comment:    req.Comment,
		ReviewerID: p.MemberID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

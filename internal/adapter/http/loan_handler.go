package http

import (
	"errors"
	"net/http"

	"csei-backend/internal/domain/document"
	domain "csei-backend/internal/domain/loan"
	"csei-backend/internal/usecase/loan"
	"csei-backend/pkg/fields"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

const uploadField = "engagement_letter"

var loanRequired = []string{"amount", "duration", "engagement_letter"}

type guarantorReq struct {
	GuarantorID     string          `json:"guarantor_id" validate:"required"`
	CommittedAmount decimal.Decimal `json:"committed_amount" validate:"dpos,dec2"`
}

type submitLoanReq struct {
	Amount           decimal.Decimal `json:"amount" validate:"dpos,dec2"`
	Duration         int             `json:"duration" validate:"gt=0,lte=360"`
	EngagementLetter string          `json:"engagement_letter" validate:"max=1024"`
	Guarantors       []guarantorReq  `json:"guarantors" validate:"dive"`
}

func (h *LoanHandler) Submit(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req submitLoanReq
	if err := bindRequired(c, &req, loanRequired); err != nil {
		return respondError(c, err)
	}
	in := loan.SubmitInput{
		ApplicantID:      p.MemberID,
		Amount:           req.Amount,
		Duration:         req.Duration,
		EngagementLetter: req.EngagementLetter,
	}
	for _, g := range req.Guarantors {
		in.Guarantors = append(in.Guarantors, loan.GuarantorInput{GuarantorID: g.GuarantorID, CommittedAmount: g.CommittedAmount})
	}
	res, err := h.uc.Submit(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

type reviewLoanReq struct {
	Status   string `json:"status"`
	Comments string `json:"comments"`
}

func (h *LoanHandler) Review(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req reviewLoanReq
	if err := bindRequired(c, &req, reviewRequired); err != nil {
		return respondError(c, err)
	}
	res, err := h.uc.Review(c.Request().Context(), loan.ReviewInput{
		ApplicationID: c.Param("id"),
		Status:        domain.Status(req.Status),
		Comments:      req.Comments,
		ReviewerID:    p.MemberID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) Get(c echo.Context) error {
	res, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) List(c echo.Context) error {
	res, err := h.uc.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) ListMine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	res, err := h.uc.ListForMember(c.Request().Context(), p.MemberID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) Stats(c echo.Context) error {
	res, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) EngagementLetterLink(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	res, err := h.uc.EngagementLetterLink(c.Request().Context(), c.Param("id"), loan.Principal{
		MemberID: p.MemberID,
		Admin:    p.IsAdmin(),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) UploadEngagementLetter(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, loan.MaxDocumentSize+1<<20)
	fh, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return respondError(c, domain.ErrInvalidDocument)
		}
		return respondError(c, &fields.MissingError{Fields: []string{uploadField}})
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	res, err := h.uc.UploadEngagementLetter(c.Request().Context(), document.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
		UploadedBy:  p.MemberID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

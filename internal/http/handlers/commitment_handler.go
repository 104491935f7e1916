package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/commitment-fund/backend/internal/addr"
	"github.com/commitment-fund/backend/internal/commitments"
	"github.com/commitment-fund/backend/internal/config"
	"github.com/commitment-fund/backend/internal/denom"
	"github.com/commitment-fund/backend/internal/http/dto"
	"github.com/commitment-fund/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CommitmentHandler struct {
	service *services.CommitmentService
	cfg     *config.Config
	log     *zap.Logger
}

func NewCommitmentHandler(service *services.CommitmentService, cfg *config.Config, log *zap.Logger) *CommitmentHandler {
	return &CommitmentHandler{service: service, cfg: cfg, log: log}
}

func (h *CommitmentHandler) ListCommitments(c *fiber.Ctx) error {
	in := commitments.QueryInput{
		Status: commitments.ParseBucket(c.Query("status")),
		Mine:   strings.TrimSpace(c.Query("mine")),
		Cursor: parseBoundedInt(c.Query("cursor"), 0, 0, h.cfg.MaxCursor),
		Limit:  parseBoundedInt(c.Query("limit"), h.cfg.DefaultPageLimit, 1, h.cfg.MaxPageLimit),
	}

	out, err := h.service.List(c.Context(), in)
	if err != nil {
		h.log.Error("list commitments failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.CommitmentListResponse{
		Items:      dto.NewCommitmentViews(out.Items),
		Total:      out.Total,
		NextCursor: out.NextCursor,
		Now:        time.Now().Unix(),
	})
}

func (h *CommitmentHandler) GetCommitment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid commitment id"})
	}

	item, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "commitment not found"})
		}
		h.log.Error("get commitment failed", zap.Uint64("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.CommitmentResponse{
		Item: dto.NewCommitmentView(*item),
		Now:  time.Now().Unix(),
	})
}

func (h *CommitmentHandler) GetEligibility(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid commitment id"})
	}

	viewer := strings.TrimSpace(c.Query("viewer"))
	eligibility, err := h.service.Eligibility(c.Context(), id, viewer, time.Now().Unix())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "commitment not found"})
		}
		h.log.Error("get eligibility failed", zap.Uint64("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	return c.JSON(dto.EligibilityResponse{
		Eligibility: *eligibility,
		Now:         time.Now().Unix(),
	})
}

func (h *CommitmentHandler) ValidateCreate(c *fiber.Ctx) error {
	var req dto.CreateCommitmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}

	validated, err := h.service.ValidateCreate(commitments.CreateInput{
		Title:             req.Title,
		Amount:            req.Amount,
		DeadlineInput:     req.Deadline,
		Recipient:         req.Recipient,
		UseCustomCooldown: req.UseCustomCooldown,
		CooldownInput:     req.Cooldown,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Kind:  validationKind(err),
		})
	}

	return c.JSON(dto.ValidateCreateResponse{OK: true, Validated: validated})
}

// validationKind maps sentinel validation errors to stable machine-readable
// codes so clients do not have to match on message text.
func validationKind(err error) string {
	switch {
	case errors.Is(err, commitments.ErrInvalidTitle):
		return "invalid_title"
	case errors.Is(err, commitments.ErrInvalidDeadline):
		return "invalid_deadline"
	case errors.Is(err, commitments.ErrDeadlineTooSoon):
		return "deadline_too_soon"
	case errors.Is(err, commitments.ErrInvalidRecipient), errors.Is(err, addr.ErrInvalidAddress):
		return "invalid_recipient"
	case errors.Is(err, commitments.ErrZeroAmount):
		return "zero_amount"
	case errors.Is(err, commitments.ErrInvalidCooldown):
		return "invalid_cooldown"
	case errors.Is(err, denom.ErrTooManyDecimals):
		return "too_many_decimals"
	case errors.Is(err, denom.ErrNegativeAmount):
		return "negative_amount"
	case errors.Is(err, denom.ErrInvalidAmount):
		return "invalid_amount"
	default:
		return "invalid_input"
	}
}

// parseBoundedInt falls back to def when the value is absent or not a
// number, and clamps the rest into [min, max].
func parseBoundedInt(raw string, def, min, max int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

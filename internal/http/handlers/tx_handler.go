package handlers

import (
	"errors"
	"strings"

	"github.com/commitment-fund/backend/internal/addr"
	"github.com/commitment-fund/backend/internal/commitments"
	"github.com/commitment-fund/backend/internal/http/dto"
	"github.com/commitment-fund/backend/internal/mvx"
	"github.com/commitment-fund/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TxHandler builds unsigned transaction payloads for the wallet to sign.
// The server never holds keys; it only shapes call data.
type TxHandler struct {
	service *services.CommitmentService
	log     *zap.Logger
}

func NewTxHandler(service *services.CommitmentService, log *zap.Logger) *TxHandler {
	return &TxHandler{service: service, log: log}
}

func (h *TxHandler) BuildCreateTx(c *fiber.Ctx) error {
	var req dto.CreateCommitmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}
	if resp := checkSender(req.Sender); resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*resp)
	}

	tx, err := h.service.BuildCreateTx(commitments.CreateInput{
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

	return c.JSON(dto.TxResponse{Tx: tx})
}

func (h *TxHandler) BuildSubmitProofTx(c *fiber.Ctx) error {
	var req dto.SubmitProofRequest
	if err := c.BodyParser(&req); err != nil || req.ID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}
	if resp := checkSender(req.Sender); resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*resp)
	}

	tx, err := h.service.BuildSubmitProofTx(req.ID, req.ProofURL)
	if err != nil {
		kind := "invalid_input"
		if errors.Is(err, mvx.ErrInvalidProofURL) {
			kind = "invalid_proof_url"
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error(), Kind: kind})
	}

	return c.JSON(dto.TxResponse{Tx: tx})
}

func (h *TxHandler) BuildFinalizeTx(c *fiber.Ctx) error {
	return h.buildActionTx(c, h.service.BuildFinalizeTx)
}

func (h *TxHandler) BuildClaimTx(c *fiber.Ctx) error {
	return h.buildActionTx(c, h.service.BuildClaimTx)
}

func (h *TxHandler) BuildCancelTx(c *fiber.Ctx) error {
	return h.buildActionTx(c, h.service.BuildCancelTx)
}

func (h *TxHandler) buildActionTx(c *fiber.Ctx, build func(uint64) mvx.TxPayload) error {
	var req dto.CommitmentActionRequest
	if err := c.BodyParser(&req); err != nil || req.ID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request"})
	}
	if resp := checkSender(req.Sender); resp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*resp)
	}

	return c.JSON(dto.TxResponse{Tx: build(req.ID)})
}

// checkSender rejects a malformed sender address early so the wallet does
// not get a payload it cannot sign. An empty sender is fine, the wallet
// fills its own.
func checkSender(sender string) *dto.ErrorResponse {
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return nil
	}
	if err := addr.Validate(sender); err != nil {
		return &dto.ErrorResponse{Error: "invalid sender address", Kind: "invalid_sender"}
	}
	return nil
}

// Package bot implements the user-facing command layer on top of the gate
// core: force-sub prompts, token redemption, file storage and retrieval.
package bot

import (
	"context"
	"errors"
	"fmt"

	"filegate/internal/access"
	"filegate/internal/common/config"
	cerrors "filegate/internal/common/errors"
	"filegate/internal/common/logger"
	"filegate/internal/lease"
	"filegate/internal/shortener"
	"filegate/internal/store"
	"filegate/internal/transport"
)

// Handler wires one inbound user action through the gate: subscription oracle
// first, token gate second, lease registry last.
type Handler struct {
	cfg         *config.Config
	tr          transport.Transport
	authorizer  *access.Authorizer
	issuer      *access.Issuer
	grants      *store.GrantStore
	registry    *lease.Registry
	shortener   *shortener.Client
	botUsername string
	logger      logger.Logger
}

func NewHandler(cfg *config.Config, tr transport.Transport, authorizer *access.Authorizer, issuer *access.Issuer, grants *store.GrantStore, registry *lease.Registry, sh *shortener.Client, botUsername string, log logger.Logger) *Handler {
	return &Handler{
		cfg:         cfg,
		tr:          tr,
		authorizer:  authorizer,
		issuer:      issuer,
		grants:      grants,
		registry:    registry,
		shortener:   sh,
		botUsername: botUsername,
		logger:      log.WithFields(map[string]interface{}{"component": "bot"}),
	}
}

const (
	msgGenericFailure = "Something went wrong, please try again."
	msgNoSuchLink     = "No file exists for that link."
	msgOriginRetry    = "The file could not be refreshed from the archive, please try again."
)

func (h *Handler) joinPrompt() string {
	return fmt.Sprintf("⚠️ Please join [our channel](%s) to use this bot, or get a temporary access token with /token.", h.cfg.Telegram.ForceSubLink)
}

// authorize computes the per-action decision, folding in the user's last
// redeemed token.
func (h *Handler) authorize(ctx context.Context, userID int64) (allowed bool, reply string, err error) {
	token, err := h.grants.CurrentToken(ctx, userID)
	if err != nil {
		return false, msgGenericFailure, cerrors.NewStoreUnavailableError(err)
	}

	decision, err := h.authorizer.Authorize(ctx, userID, token)
	if err != nil {
		return false, msgGenericFailure, cerrors.NewStoreUnavailableError(err)
	}
	if !decision.Allowed() {
		return false, h.joinPrompt(), nil
	}
	return true, "", nil
}

// Start handles /start. A non-empty payload is a deep-link token redemption
// from the ad flow.
func (h *Handler) Start(ctx context.Context, userID int64, payload string) (string, error) {
	if payload != "" {
		grant, err := h.issuer.ActiveGrant(ctx, userID, payload)
		if errors.Is(err, access.ErrInvalidToken) {
			return "That access token is invalid or has expired. Get a fresh one with /token.", nil
		}
		if err != nil {
			return msgGenericFailure, cerrors.NewStoreUnavailableError(err)
		}

		if err := h.grants.SetCurrent(ctx, userID, payload, h.cfg.Access.TokenTTL()); err != nil {
			return msgGenericFailure, cerrors.NewStoreUnavailableError(err)
		}
		return fmt.Sprintf("✅ Access granted until %s. Send me a file to store, or a share link to fetch one.",
			grant.ExpiresAt.UTC().Format("2006-01-02 15:04 MST")), nil
	}

	allowed, reply, err := h.authorize(ctx, userID)
	if err != nil || !allowed {
		return reply, err
	}
	return "Welcome to the file-sharing bot! Send me a document to store it, or /get_file <link> to fetch one.", nil
}

// StoreFile archives an uploaded file and hands back its share link.
func (h *Handler) StoreFile(ctx context.Context, userID int64, fileRef string) (string, error) {
	allowed, reply, err := h.authorize(ctx, userID)
	if err != nil || !allowed {
		return reply, err
	}

	originRef, err := h.tr.SendFile(ctx, h.cfg.Telegram.ArchiveChannelID, fileRef)
	if err != nil {
		h.logger.WithError(err).Error("failed to archive file", map[string]interface{}{
			"userId": userID,
		})
		return "The file could not be archived, please try again.", cerrors.NewOriginUnavailableError("", err)
	}

	shareLink, err := h.registry.Store(ctx, userID, fileRef, originRef)
	if err != nil {
		return msgGenericFailure, cerrors.NewStoreUnavailableError(err)
	}

	return fmt.Sprintf("File stored! Share it with:\n`/get_file %s`", shareLink), nil
}

// GetFile resolves a share link, renews the lease, and serves the file.
func (h *Handler) GetFile(ctx context.Context, userID int64, shareLink string) (string, error) {
	allowed, reply, err := h.authorize(ctx, userID)
	if err != nil || !allowed {
		return reply, err
	}

	l, err := h.registry.Touch(ctx, shareLink)
	if errors.Is(err, lease.ErrLeaseNotFound) {
		return msgNoSuchLink, nil
	}
	if errors.Is(err, lease.ErrOriginUnavailable) {
		return msgOriginRetry, cerrors.NewOriginUnavailableError(shareLink, err)
	}
	if err != nil {
		return msgGenericFailure, cerrors.NewStoreUnavailableError(err)
	}

	if _, err := h.tr.SendFile(ctx, userID, l.FileRef); err != nil {
		h.logger.WithError(err).Error("failed to serve file", map[string]interface{}{
			"shareLink": shareLink,
			"userId":    userID,
		})
		return msgGenericFailure, err
	}
	return "", nil
}

// IssueToken creates a fresh access grant and hands out the (monetized) link
// that redeems it.
func (h *Handler) IssueToken(ctx context.Context, userID int64) (string, error) {
	token, err := h.issuer.Issue(ctx, userID, h.cfg.Access.TokenTTL())
	if err != nil {
		return msgGenericFailure, cerrors.NewStoreUnavailableError(err)
	}

	link := h.shortener.Shorten(ctx, shortener.DeepLink(h.botUsername, token))
	return fmt.Sprintf("Open this link to unlock %d hours of access:\n%s",
		h.cfg.Access.TokenTTLHours, link), nil
}

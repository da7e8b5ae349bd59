// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/session"
	"github.com/dustin/go-humanize"
)

const exportTimeLayout = "20060102_150405"

// AdminHandler serves the greeting, export and renumber commands.
type AdminHandler struct {
	base
}

func NewAdminHandler(d Deps) *AdminHandler {
	return &AdminHandler{base: newBase(d)}
}

// Start handles /start and /help
func (h *AdminHandler) Start(ctx context.Context, in models.Inbound) error {
	if !h.authorized(ctx, in) {
		return nil
	}
	_, err := h.reply(ctx, in.ChatID, markdown(msgWelcome))
	return err
}

// Export handles /export. The export is written to the data directory, sent
// as a document and removed again.
func (h *AdminHandler) Export(ctx context.Context, in models.Inbound) error {
	if !h.authorized(ctx, in) {
		return nil
	}
	if h.Store.Len() == 0 {
		_, err := h.reply(ctx, in.ChatID, plain(msgNothingToExport))
		return err
	}

	now := h.Now()
	exp := h.Store.Export(in.Sender.Label())
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		h.Log.Error().Err(err).Msg("failed to encode export")
		return err
	}

	name := "quiz_export_" + now.Format(exportTimeLayout) + ".json"
	path := filepath.Join(h.Config.DataDir, name)
	if err := os.MkdirAll(h.Config.DataDir, 0o755); err != nil {
		h.Log.Error().Err(err).Str("dir", h.Config.DataDir).Msg("failed to create data dir")
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		h.Log.Error().Err(err).Str("file", path).Msg("failed to write export")
		_, rerr := h.reply(ctx, in.ChatID, plain("Export failed: could not write the file."))
		if rerr != nil {
			return rerr
		}
		return err
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			h.Log.Warn().Err(err).Str("file", path).Msg("failed to remove export file")
		}
	}()

	caption := fmt.Sprintf("Quiz export\nQuestions: %s\nExported: %s\nSize: %s",
		humanize.Comma(int64(exp.Metadata.TotalQuestions)),
		now.Format("2006-01-02 15:04:05"),
		humanize.Bytes(uint64(len(data))))

	err = h.Messenger.SendDocument(ctx, in.ChatID, models.Document{FileName: name, Caption: caption, Path: path})
	if err != nil {
		h.Log.Error().Err(err).Int64("chat_id", in.ChatID).Msg("failed to send export")
		h.reply(ctx, in.ChatID, plain("Export failed: the file could not be sent."))
		return err
	}
	h.Log.Info().Int("questions", exp.Metadata.TotalQuestions).Str("by", exp.Metadata.ExportedBy).Msg("export sent")
	return nil
}

// Renumber handles /fix
func (h *AdminHandler) Renumber(ctx context.Context, in models.Inbound) error {
	if !h.authorized(ctx, in) {
		return nil
	}
	if h.Store.Len() == 0 {
		_, err := h.reply(ctx, in.ChatID, plain(msgNothingRenumber))
		return err
	}

	res, err := h.Store.Renumber()
	if n := h.Sessions.EndKind(session.KindManage); n > 0 {
		h.Log.Info().Int("sessions", n).Msg("management sessions ended by renumber")
	}
	text := fmt.Sprintf("Renumbered %d questions.\nIDs: %s", len(res.IDs), strings.Join(res.IDs, ", "))
	if err != nil {
		text += msgSaveWarning
	}
	_, err = h.reply(ctx, in.ChatID, plain(text))
	return err
}

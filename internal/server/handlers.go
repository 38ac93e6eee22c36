package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/finance-dashboard/internal/entity/budget"
	"max.ks1230/finance-dashboard/internal/entity/goals"
	"max.ks1230/finance-dashboard/internal/logger"
	"max.ks1230/finance-dashboard/internal/model/extract"
	"max.ks1230/finance-dashboard/internal/model/normalize"
)

const (
	cannotLoadSessionMessage = "Can't load your session atm. Try later"
	cannotSaveSessionMessage = "Can't save your session atm. Try later"
)

const previewRows = 10

func (s *Server) handlePaystub(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := sessionID(w, r)
	if !ok {
		return nil
	}
	body, err := readBody(w, r)
	if err != nil {
		return err
	}

	text, err := extract.Text(body)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Error reading PDF: %v", err))
		return errors.Wrap(err, "upload paystub")
	}

	st, err := s.storage.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, cannotLoadSessionMessage)
		return errors.Wrap(err, "upload paystub")
	}
	st.PaystubText = text
	if err = s.storage.SaveByID(ctx, id, st); err != nil {
		writeError(w, http.StatusInternalServerError, cannotSaveSessionMessage)
		return errors.Wrap(err, "upload paystub")
	}

	writeJSON(w, http.StatusOK, paystubResponse{Text: text})
	return nil
}

func (s *Server) handleTransactions(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := sessionID(w, r)
	if !ok {
		return nil
	}
	body, err := readBody(w, r)
	if err != nil {
		return err
	}

	format := uploadFormat(r)
	led, err := normalize.Transactions(body, format)
	if err != nil {
		// prior ledger stays active, the client may retry the upload
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("Error reading %s: %v", strings.ToUpper(string(format)), err))
		return errors.Wrap(err, "upload transactions")
	}

	st, err := s.storage.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, cannotLoadSessionMessage)
		return errors.Wrap(err, "upload transactions")
	}
	st.Ledger = led
	if err = s.storage.SaveByID(ctx, id, st); err != nil {
		writeError(w, http.StatusInternalServerError, cannotSaveSessionMessage)
		return errors.Wrap(err, "upload transactions")
	}
	s.invalidate(id)

	logger.Info("transactions uploaded",
		zap.String("session", id), zap.Int("records", len(led)))
	writeJSON(w, http.StatusOK, transactionsResponse{
		Records: len(led),
		Preview: preview(led),
	})
	return nil
}

func (s *Server) handleLimits(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := sessionID(w, r)
	if !ok {
		return nil
	}

	var limits map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&limits); err != nil {
		writeError(w, http.StatusBadRequest, "invalid limits payload")
		return nil
	}
	for cat, lim := range limits {
		if !budget.IsKnownCategory(cat) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown category %q", cat))
			return nil
		}
		if lim < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("limit for %s must be non-negative", cat))
			return nil
		}
	}

	st, err := s.storage.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, cannotLoadSessionMessage)
		return errors.Wrap(err, "set limits")
	}
	for cat, lim := range limits {
		st.Limits[cat] = lim
	}
	if err = s.storage.SaveByID(ctx, id, st); err != nil {
		writeError(w, http.StatusInternalServerError, cannotSaveSessionMessage)
		return errors.Wrap(err, "set limits")
	}
	s.invalidate(id)

	writeJSON(w, http.StatusOK, limitsResponse{Limits: st.Limits})
	return nil
}

func (s *Server) handleRole(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := sessionID(w, r)
	if !ok {
		return nil
	}

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid role payload")
		return nil
	}
	if !goals.IsKnownRole(req.Role) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown role %q", req.Role))
		return nil
	}

	st, err := s.storage.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, cannotLoadSessionMessage)
		return errors.Wrap(err, "set role")
	}
	st.Role = req.Role
	if err = s.storage.SaveByID(ctx, id, st); err != nil {
		writeError(w, http.StatusInternalServerError, cannotSaveSessionMessage)
		return errors.Wrap(err, "set role")
	}

	writeJSON(w, http.StatusOK, req)
	return nil
}

func (s *Server) handleInsights(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := sessionID(w, r)
	if !ok {
		return nil
	}

	if s.cache != nil {
		if payload, err := s.cache.GetReport(id, insightsReportKind); err == nil {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, payload)
			return nil
		}
	}

	st, err := s.storage.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, cannotLoadSessionMessage)
		return errors.Wrap(err, "get insights")
	}

	report := s.analyzer.BuildReport(st.Ledger, st.Limits)
	payload, err := json.Marshal(report)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Can't build your report atm. Try later")
		return errors.Wrap(err, "get insights")
	}

	if s.cache != nil {
		if err = s.cache.CacheReport(id, insightsReportKind, string(payload)); err != nil {
			logger.Warn("caching report", zap.String("session", id), zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
	return nil
}

func (s *Server) handleGoals(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, ok := sessionID(w, r)
	if !ok {
		return nil
	}

	var req goalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid goals payload")
		return nil
	}
	if req.hasNegative() {
		writeError(w, http.StatusBadRequest, "goal amounts must be non-negative")
		return nil
	}

	st, err := s.storage.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, cannotLoadSessionMessage)
		return errors.Wrap(err, "compute goals")
	}

	plan, err := req.plan(st.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil
	}

	writeJSON(w, http.StatusOK, goalsResponse{
		Role:    plan.Role(),
		Total:   plan.Total(),
		Summary: plan.Summary(),
	})
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large or unreadable")
		return nil, errors.Wrap(err, "read body")
	}
	return body, nil
}

func uploadFormat(r *http.Request) normalize.Format {
	if f := r.URL.Query().Get("format"); f != "" {
		return normalize.Format(strings.ToLower(f))
	}
	ct := r.Header.Get("Content-Type")
	if strings.Contains(ct, "spreadsheet") || strings.Contains(ct, "excel") {
		return normalize.FormatXLSX
	}
	return normalize.FormatCSV
}

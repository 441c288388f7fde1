package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hts-group/hts-tasks/internal/domain"
	"github.com/hts-group/hts-tasks/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type createItemRequest struct {
	Reminder            *time.Time `json:"reminder"`
	StartTime           *time.Time `json:"startTime"`
	Name                string     `json:"name"`
	Detail              string     `json:"detail"`
	FurtherDetails      string     `json:"furtherDetails"`
	LetterCode          string     `json:"letterCode"`
	SentTo              string     `json:"sentTo"`
	LetterType          string     `json:"letterType"`
	Priority            int        `json:"priority"`
	IsUrgent            bool       `json:"isUrgent"`
	ForceUrgentDeadline bool       `json:"forceUrgentDeadline"`
}

// updateRequest carries raw field values keyed by field name. Configs apply
// to text fields only.
type updateRequest struct {
	Fields  map[string]json.RawMessage     `json:"fields"`
	Configs map[string]*domain.FieldConfig `json:"configs"`
}

func (s *Server) handleListItems(c *gin.Context) {
	var in usecase.ListItemsInput
	if k := c.Query("kind"); k != "" {
		kind, err := domain.ParseKind(k)
		if err != nil {
			s.fail(c, err)
			return
		}
		in.Kind = kind
	}
	if st := c.Query("status"); st != "" {
		status, ok := parseStatus(st)
		if !ok {
			badRequest(c, fmt.Sprintf("unknown status %q", st))
			return
		}
		in.Status = status
	}

	out, err := s.container.ListItemsUseCase().Execute(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks":   out.Tasks,
		"letters": out.Letters,
	})
}

func (s *Server) handleCreateItem(c *gin.Context) {
	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		s.fail(c, err)
		return
	}
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	in := usecase.CreateItemInput{
		Reminder:            req.Reminder,
		StartTime:           req.StartTime,
		Kind:                kind,
		Name:                req.Name,
		Detail:              req.Detail,
		FurtherDetails:      req.FurtherDetails,
		Priority:            req.Priority,
		IsUrgent:            req.IsUrgent,
		ForceUrgentDeadline: req.ForceUrgentDeadline,
	}
	if kind == domain.KindLetter {
		in.Letter = &domain.Letter{
			LetterCode: req.LetterCode,
			SentTo:     req.SentTo,
			LetterType: req.LetterType,
		}
	}

	out, err := s.container.CreateItemUseCase().Execute(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, out.Item)
}

func (s *Server) handleGetItem(c *gin.Context) {
	ref, ok := s.itemRef(c)
	if !ok {
		return
	}
	out, err := s.container.GetItemUseCase().Execute(c.Request.Context(), usecase.GetItemInput{Ref: ref})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":     out.Item,
		"status":   out.Status,
		"shares":   out.Shares,
		"received": out.Received,
	})
}

func (s *Server) handleUpdateItem(c *gin.Context) {
	ref, ok := s.itemRef(c)
	if !ok {
		return
	}
	updates, ok := bindUpdates(c)
	if !ok {
		return
	}
	out, err := s.container.UpdateItemUseCase().Execute(c.Request.Context(), usecase.UpdateItemInput{
		Ref:     ref,
		Updates: updates,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":           out.Item,
		"received":       out.Received,
		"fanOutFailures": out.FanOutFailures,
	})
}

func (s *Server) handleToggleDone(c *gin.Context) {
	ref, ok := s.itemRef(c)
	if !ok {
		return
	}
	var req struct {
		CompletedAt *time.Time `json:"completedAt"`
	}
	if !bindOptional(c, &req) {
		return
	}
	out, err := s.container.ToggleDoneUseCase().Execute(c.Request.Context(), usecase.ToggleDoneInput{
		CompletedAt: req.CompletedAt,
		Ref:         ref,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":     out.Item,
		"received": out.Received,
	})
}

// handleSetReminder sets or clears the reminder. A null reminder restores
// the default derived from the item's creation time.
func (s *Server) handleSetReminder(c *gin.Context) {
	ref, ok := s.itemRef(c)
	if !ok {
		return
	}
	var req struct {
		Reminder *time.Time `json:"reminder"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	out, err := s.container.UpdateItemUseCase().Execute(c.Request.Context(), usecase.UpdateItemInput{
		Ref:     ref,
		Updates: []domain.FieldUpdate{{Field: domain.FieldReminder, Value: req.Reminder}},
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":           out.Item,
		"fanOutFailures": out.FanOutFailures,
	})
}

func (s *Server) handleDeleteItem(c *gin.Context) {
	ref, ok := s.itemRef(c)
	if !ok {
		return
	}
	if err := s.container.DeleteItemUseCase().Execute(c.Request.Context(), usecase.DeleteItemInput{Ref: ref}); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleBulkDelete(c *gin.Context) {
	var req struct {
		Items []domain.ItemRef `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	out, err := s.container.BulkDeleteUseCase().Execute(c.Request.Context(), usecase.BulkDeleteInput{Refs: req.Items})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks":   out.Tasks,
		"letters": out.Letters,
	})
}

func (s *Server) handleCleanUp(c *gin.Context) {
	var req struct {
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	category, err := domain.ParseCleanUpCategory(req.Category)
	if err != nil {
		s.fail(c, err)
		return
	}
	out, err := s.container.CleanUpUseCase().Execute(c.Request.Context(), usecase.CleanUpInput{Category: category})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": out.Deleted})
}

func (s *Server) handleClearAll(c *gin.Context) {
	in := usecase.ClearAllInput{Confirm: c.Query("confirm") == "true"}
	if err := s.container.ClearAllUseCase().Execute(c.Request.Context(), in); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleShareItem(c *gin.Context) {
	ref, ok := s.itemRef(c)
	if !ok {
		return
	}
	var req struct {
		ShareCode int  `json:"shareCode"`
		Force     bool `json:"force"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	out, err := s.container.ShareItemUseCase().Execute(c.Request.Context(), usecase.ShareItemInput{
		Ref:       ref,
		ShareCode: req.ShareCode,
		Force:     req.Force,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	status := http.StatusOK
	switch out.Result {
	case domain.ShareUserNotFound:
		status = http.StatusNotFound
	case domain.ShareAlreadyShared:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{
		"result":    out.Result,
		"recipient": out.Recipient,
		"received":  out.Received,
	})
}

func (s *Server) handleListShares(c *gin.Context) {
	ref, ok := s.itemRef(c)
	if !ok {
		return
	}
	out, err := s.container.ListSharesUseCase().Execute(c.Request.Context(), usecase.ListSharesInput{Ref: ref})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"item":   out.Item,
		"shares": out.Shares,
	})
}

func (s *Server) handleUnshareItem(c *gin.Context) {
	ref, ok := s.itemRef(c)
	if !ok {
		return
	}
	out, err := s.container.UnshareItemUseCase().Execute(c.Request.Context(), usecase.UnshareItemInput{
		Ref:          ref,
		RecipientUID: c.Param("uid"),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"copiesRemoved": out.CopiesRemoved})
}

func (s *Server) handleListReceived(c *gin.Context) {
	out, err := s.container.ListReceivedUseCase().Execute(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":  out.Items,
		"unseen": out.Unseen,
	})
}

func (s *Server) handleResync(c *gin.Context) {
	out, err := s.container.ResyncReceivedUseCase().Execute(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"updated":  out.Updated,
		"orphaned": out.Orphaned,
		"failed":   out.Failed,
	})
}

func (s *Server) handleUpdateReceived(c *gin.Context) {
	updates, ok := bindUpdates(c)
	if !ok {
		return
	}
	out, err := s.container.UpdateReceivedItemUseCase().Execute(c.Request.Context(), usecase.UpdateReceivedItemInput{
		ID:      c.Param("id"),
		Updates: updates,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"received":       out.Received,
		"ownerUpdated":   out.OwnerUpdated,
		"fanOutFailures": out.FanOutFailures,
	})
}

func (s *Server) handleMarkAsSeen(c *gin.Context) {
	out, err := s.container.MarkAsSeenUseCase().Execute(c.Request.Context(), usecase.MarkAsSeenInput{ID: c.Param("id")})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"seenAt":    out.SeenAt,
		"firstSeen": out.FirstSeen,
		"ownerTold": out.OwnerTold,
	})
}

func (s *Server) handleDeleteReceived(c *gin.Context) {
	err := s.container.DeleteReceivedItemUseCase().Execute(c.Request.Context(), usecase.DeleteReceivedItemInput{ID: c.Param("id")})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleExportJSON(c *gin.Context) {
	out, err := s.container.ExportSnapshotUseCase().Execute(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(out.Filename))
	c.Data(http.StatusOK, "application/json", out.Data)
}

func (s *Server) handleImportJSON(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	out, err := s.container.ImportSnapshotUseCase().Execute(c.Request.Context(), usecase.ImportSnapshotInput{Data: data})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"mode":  out.Mode,
		"items": out.Items,
		"chats": out.Chats,
	})
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	out, err := s.container.ExportSpreadsheetUseCase().Execute(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(out.Filename))
	c.Data(http.StatusOK, xlsxContentType, out.Data)
}

func (s *Server) handleGetPhoto(c *gin.Context) {
	out, err := s.container.GetProfilePhotoUseCase().Execute(c.Request.Context(), usecase.GetProfilePhotoInput{UID: c.Param("uid")})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

// itemRef reads the kind and id path parameters. It writes the error
// response itself and reports false on failure.
func (s *Server) itemRef(c *gin.Context) (domain.ItemRef, bool) {
	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		s.fail(c, err)
		return domain.ItemRef{}, false
	}
	return domain.ItemRef{Kind: kind, ID: c.Param("id")}, true
}

// bindUpdates decodes an updateRequest into field patches ordered by field name.
func bindUpdates(c *gin.Context) ([]domain.FieldUpdate, bool) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return nil, false
	}
	updates, err := decodeUpdates(req)
	if err != nil {
		badRequest(c, err.Error())
		return nil, false
	}
	return updates, true
}

func decodeUpdates(req updateRequest) ([]domain.FieldUpdate, error) {
	names := make([]string, 0, len(req.Fields))
	for name := range req.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for name := range req.Configs {
		if _, ok := req.Fields[name]; !ok {
			return nil, fmt.Errorf("%w: config for %s without a value", domain.ErrInvalidField, name)
		}
	}

	updates := make([]domain.FieldUpdate, 0, len(names))
	for _, name := range names {
		field, err := domain.ParseField(name)
		if err != nil {
			return nil, err
		}
		value, err := domain.DecodeFieldValue(field, req.Fields[name])
		if err != nil {
			return nil, err
		}
		u := domain.FieldUpdate{Field: field, Value: value}
		if cfg, ok := req.Configs[name]; ok && cfg != nil {
			if !field.HasConfig() {
				return nil, fmt.Errorf("%w: %s takes no config", domain.ErrInvalidField, name)
			}
			u.Config = cfg
		}
		updates = append(updates, u)
	}
	return updates, nil
}

// bindOptional decodes a JSON body when one was sent.
func bindOptional(c *gin.Context, v any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(v); err != nil {
		badRequest(c, err.Error())
		return false
	}
	return true
}

func parseStatus(s string) (domain.Status, bool) {
	for _, st := range domain.AllStatuses() {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}

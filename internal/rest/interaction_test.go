//go:build !integration

package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"smartShop/business/interaction"
	"smartShop/domain"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type stubInteractionService struct {
	err error

	gotUserID   string
	gotAction   string
	gotIdentity domain.UserIdentity
}

func (s *stubInteractionService) RecordInteraction(ctx context.Context, userID, productID, actionType string, identity domain.UserIdentity) (*domain.UserInteraction, error) {
	s.gotUserID = userID
	s.gotAction = actionType
	s.gotIdentity = identity
	if s.err != nil {
		return nil, s.err
	}
	return &domain.UserInteraction{UserID: userID, ProductID: productID, ActionType: actionType}, nil
}

func doRecordInteraction(svc InteractionService, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/interactions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewInteractionHandler(svc)
	_ = handler.RecordInteraction(c)
	return rec
}

func TestRecordInteractionHandler_Created(t *testing.T) {
	svc := &stubInteractionService{}

	rec := doRecordInteraction(svc, `{"user_id":"u1","product_id":"p1","action_type":"purchase","user_name":"Ada"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotAction != "purchase" {
		t.Fatalf("action %q", svc.gotAction)
	}
	if svc.gotIdentity.Name != "Ada" {
		t.Fatalf("identity %+v", svc.gotIdentity)
	}
}

func TestRecordInteractionHandler_RejectsUnknownAction(t *testing.T) {
	rec := doRecordInteraction(&stubInteractionService{}, `{"user_id":"u1","product_id":"p1","action_type":"wishlist"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestRecordInteractionHandler_RejectsMissingFields(t *testing.T) {
	rec := doRecordInteraction(&stubInteractionService{}, `{"action_type":"view"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestRecordInteractionHandler_ServiceValidationError(t *testing.T) {
	svc := &stubInteractionService{err: interaction.ErrInvalidActionType}

	rec := doRecordInteraction(svc, `{"user_id":"u1","product_id":"p1","action_type":"view"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

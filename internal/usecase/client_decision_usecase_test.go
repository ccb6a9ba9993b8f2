package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/domain/token"
	"nexus_consulting/internal/usecase/interfaces"
	mock_interfaces "nexus_consulting/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

const portalToken = "client-portal-token-0123456789abcdef0123456789abcdef"

type portalMocks struct {
	offerRepo   *mock_interfaces.MockIOfferRepository
	requestRepo *mock_interfaces.MockIServiceRequestRepository
	projectRepo *mock_interfaces.MockIProjectRepository
	ledger      *mock_interfaces.MockIActivityLedger
	uc          *ClientDecisionUseCase
}

func newPortal(t *testing.T, ctrl *gomock.Controller) portalMocks {
	t.Helper()
	m := portalMocks{
		offerRepo:   mock_interfaces.NewMockIOfferRepository(ctrl),
		requestRepo: mock_interfaces.NewMockIServiceRequestRepository(ctrl),
		projectRepo: mock_interfaces.NewMockIProjectRepository(ctrl),
		ledger:      mock_interfaces.NewMockIActivityLedger(ctrl),
	}
	projects := NewProjectUseCase(m.projectRepo, m.requestRepo, m.offerRepo, nil, m.ledger, "")
	m.uc = NewClientDecisionUseCase(m.offerRepo, m.requestRepo, projects, m.ledger)
	return m
}

// decidableOffer is a manager-approved offer carrying a live token.
func decidableOffer(now time.Time) entities.Offer {
	return entities.Offer{
		ID:             "off-1",
		RequestID:      "req-1",
		Status:         entities.OfferStatusManagerApproved,
		TokenHash:      token.Hash(portalToken),
		TokenExpiresAt: now.Add(time.Hour),
	}
}

func TestClientDecisionUseCase_TokenChecks(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("empty token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := newPortal(t, ctrl)

		_, err := m.uc.Decide(context.Background(), "  ", DecisionApprove, "", "")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("unknown decision", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := newPortal(t, ctrl)

		_, err := m.uc.Decide(context.Background(), portalToken, "accept", "", "")
		if !errors.Is(err, ErrInvalidDecision) {
			t.Fatalf("expected ErrInvalidDecision, got %v", err)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := newPortal(t, ctrl)

		m.offerRepo.EXPECT().GetByTokenHash(gomock.Any(), token.Hash(portalToken)).Return(entities.Offer{}, nil)

		_, err := m.uc.Decide(context.Background(), portalToken, DecisionApprove, "", "")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("expired token fails both decisions", func(t *testing.T) {
		for _, decision := range []string{DecisionApprove, DecisionReject} {
			ctrl := gomock.NewController(t)
			m := newPortal(t, ctrl)
			m.uc.now = func() time.Time { return now }

			expired := decidableOffer(now)
			expired.TokenExpiresAt = now.Add(-time.Minute)
			m.offerRepo.EXPECT().GetByTokenHash(gomock.Any(), token.Hash(portalToken)).Return(expired, nil)

			_, err := m.uc.Decide(context.Background(), portalToken, decision, "", "why not")
			if !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("decision %s: expected ErrUnauthorized, got %v", decision, err)
			}
			ctrl.Finish()
		}
	})

	t.Run("offer not yet manager approved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := newPortal(t, ctrl)
		m.uc.now = func() time.Time { return now }

		stale := decidableOffer(now)
		stale.Status = entities.OfferStatusSubmittedToManager
		m.offerRepo.EXPECT().GetByTokenHash(gomock.Any(), token.Hash(portalToken)).Return(stale, nil)

		_, err := m.uc.Decide(context.Background(), portalToken, DecisionApprove, "", "")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestClientDecisionUseCase_Approve(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("approve creates the project and advances the request twice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := newPortal(t, ctrl)
		m.uc.now = func() time.Time { return now }

		offer := decidableOffer(now)
		m.offerRepo.EXPECT().GetByTokenHash(gomock.Any(), token.Hash(portalToken)).Return(offer, nil)
		m.offerRepo.EXPECT().UpdateClientDecision(gomock.Any(), "req-1", entities.OfferStatusManagerApproved, entities.OfferStatusClientApproved, "Ada", "looks great").Return(
			entities.Offer{ID: "off-1", RequestID: "req-1", Status: entities.OfferStatusClientApproved, ClientName: "Ada"}, nil)

		gomock.InOrder(
			m.requestRepo.EXPECT().UpdateStatus(gomock.Any(), "req-1", entities.RequestStatusConsultantAccepted, entities.RequestStatusClientApproved).Return(
				entities.ServiceRequest{ID: "req-1", Status: entities.RequestStatusClientApproved}, nil),
			m.requestRepo.EXPECT().UpdateStatus(gomock.Any(), "req-1", entities.RequestStatusClientApproved, entities.RequestStatusProjectCreated).Return(
				entities.ServiceRequest{ID: "req-1", Status: entities.RequestStatusProjectCreated}, nil),
		)

		m.projectRepo.EXPECT().ReserveCode(gomock.Any(), gomock.Any()).Return(nil)
		m.projectRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.Project) (entities.Project, error) { return p, nil },
		)
		m.ledger.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := m.uc.Decide(context.Background(), portalToken, DecisionApprove, "Ada", "looks great")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Offer.Status != entities.OfferStatusClientApproved {
			t.Fatalf("unexpected offer status: %s", res.Offer.Status)
		}
		if res.Project == nil || res.Project.RequestID != "req-1" {
			t.Fatalf("expected a created project, got %+v", res.Project)
		}
		if res.Project.Status != entities.ProjectStatusDraft {
			t.Fatalf("unexpected project status: %s", res.Project.Status)
		}
	})

	t.Run("repeat approve returns the existing project without side effects", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := newPortal(t, ctrl)
		m.uc.now = func() time.Time { return now }

		approved := decidableOffer(now)
		approved.Status = entities.OfferStatusClientApproved
		existing := entities.Project{ID: "prj-1", RequestID: "req-1", Code: "PRJ-2026-aaaa1111", Status: entities.ProjectStatusDraft}

		m.offerRepo.EXPECT().GetByTokenHash(gomock.Any(), token.Hash(portalToken)).Return(approved, nil)
		m.projectRepo.EXPECT().GetByRequestID(gomock.Any(), "req-1").Return(existing, nil)

		res, err := m.uc.Decide(context.Background(), portalToken, DecisionApprove, "Ada", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Project == nil || res.Project.ID != "prj-1" {
			t.Fatalf("expected the existing project, got %+v", res.Project)
		}
	})

	t.Run("lost cas against a concurrent approve is idempotent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := newPortal(t, ctrl)
		m.uc.now = func() time.Time { return now }

		offer := decidableOffer(now)
		approved := offer
		approved.Status = entities.OfferStatusClientApproved
		existing := entities.Project{ID: "prj-1", RequestID: "req-1"}

		m.offerRepo.EXPECT().GetByTokenHash(gomock.Any(), token.Hash(portalToken)).Return(offer, nil)
		m.offerRepo.EXPECT().UpdateClientDecision(gomock.Any(), "req-1", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
			entities.Offer{}, interfaces.ErrStatusConflict)
		m.offerRepo.EXPECT().GetByRequestID(gomock.Any(), "req-1").Return(approved, nil)
		m.projectRepo.EXPECT().GetByRequestID(gomock.Any(), "req-1").Return(existing, nil)

		res, err := m.uc.Decide(context.Background(), portalToken, DecisionApprove, "Ada", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Project == nil || res.Project.ID != "prj-1" {
			t.Fatalf("expected the racing writer's project, got %+v", res.Project)
		}
	})

	t.Run("approve after reject is a conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := newPortal(t, ctrl)
		m.uc.now = func() time.Time { return now }

		rejected := decidableOffer(now)
		rejected.Status = entities.OfferStatusClientRejected
		m.offerRepo.EXPECT().GetByTokenHash(gomock.Any(), token.Hash(portalToken)).Return(rejected, nil)

		_, err := m.uc.Decide(context.Background(), portalToken, DecisionApprove, "Ada", "")
		if !errors.Is(err, ErrDecisionConflict) {
			t.Fatalf("expected ErrDecisionConflict, got %v", err)
		}
	})

	t.Run("project race during approve resolves to the existing project", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := newPortal(t, ctrl)
		m.uc.now = func() time.Time { return now }

		offer := decidableOffer(now)
		existing := entities.Project{ID: "prj-1", RequestID: "req-1", Code: "PRJ-2026-bbbb2222"}

		m.offerRepo.EXPECT().GetByTokenHash(gomock.Any(), token.Hash(portalToken)).Return(offer, nil)
		m.offerRepo.EXPECT().UpdateClientDecision(gomock.Any(), "req-1", entities.OfferStatusManagerApproved, entities.OfferStatusClientApproved, "", "").Return(
			entities.Offer{ID: "off-1", RequestID: "req-1", Status: entities.OfferStatusClientApproved}, nil)
		m.requestRepo.EXPECT().UpdateStatus(gomock.Any(), "req-1", gomock.Any(), gomock.Any()).Return(
			entities.ServiceRequest{ID: "req-1"}, nil).Times(2)
		m.projectRepo.EXPECT().ReserveCode(gomock.Any(), gomock.Any()).Return(nil)
		m.projectRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Project{}, interfaces.ErrDuplicateKey)
		m.projectRepo.EXPECT().GetByRequestID(gomock.Any(), "req-1").Return(existing, nil)
		m.ledger.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := m.uc.Decide(context.Background(), portalToken, DecisionApprove, "", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Project == nil || res.Project.ID != "prj-1" {
			t.Fatalf("expected the existing project, got %+v", res.Project)
		}
	})
}

func TestClientDecisionUseCase_Reject(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("reject requires a comment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := newPortal(t, ctrl)
		m.uc.now = func() time.Time { return now }

		m.offerRepo.EXPECT().GetByTokenHash(gomock.Any(), token.Hash(portalToken)).Return(decidableOffer(now), nil)

		_, err := m.uc.Decide(context.Background(), portalToken, DecisionReject, "Ada", "  ")
		if !errors.Is(err, ErrCommentRequired) {
			t.Fatalf("expected ErrCommentRequired, got %v", err)
		}
	})

	t.Run("reject records the comment and mirrors the request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := newPortal(t, ctrl)
		m.uc.now = func() time.Time { return now }

		offer := decidableOffer(now)
		m.offerRepo.EXPECT().GetByTokenHash(gomock.Any(), token.Hash(portalToken)).Return(offer, nil)
		m.offerRepo.EXPECT().UpdateClientDecision(gomock.Any(), "req-1", entities.OfferStatusManagerApproved, entities.OfferStatusClientRejected, "Ada", "too costly").Return(
			entities.Offer{ID: "off-1", RequestID: "req-1", Status: entities.OfferStatusClientRejected, ClientComment: "too costly"}, nil)
		m.requestRepo.EXPECT().UpdateStatus(gomock.Any(), "req-1", entities.RequestStatusConsultantAccepted, entities.RequestStatusClientRejected).Return(
			entities.ServiceRequest{ID: "req-1", Status: entities.RequestStatusClientRejected}, nil)
		m.ledger.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := m.uc.Decide(context.Background(), portalToken, DecisionReject, "Ada", "too costly")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Offer.Status != entities.OfferStatusClientRejected {
			t.Fatalf("unexpected status: %s", res.Offer.Status)
		}
		if res.Project != nil {
			t.Fatal("reject must not create a project")
		}
	})

	t.Run("repeat reject is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := newPortal(t, ctrl)
		m.uc.now = func() time.Time { return now }

		rejected := decidableOffer(now)
		rejected.Status = entities.OfferStatusClientRejected
		m.offerRepo.EXPECT().GetByTokenHash(gomock.Any(), token.Hash(portalToken)).Return(rejected, nil)

		res, err := m.uc.Decide(context.Background(), portalToken, DecisionReject, "Ada", "still no")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Offer.Status != entities.OfferStatusClientRejected {
			t.Fatalf("unexpected status: %s", res.Offer.Status)
		}
	})

	t.Run("reject after approve is a conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := newPortal(t, ctrl)
		m.uc.now = func() time.Time { return now }

		approved := decidableOffer(now)
		approved.Status = entities.OfferStatusClientApproved
		m.offerRepo.EXPECT().GetByTokenHash(gomock.Any(), token.Hash(portalToken)).Return(approved, nil)

		_, err := m.uc.Decide(context.Background(), portalToken, DecisionReject, "Ada", "changed my mind")
		if !errors.Is(err, ErrDecisionConflict) {
			t.Fatalf("expected ErrDecisionConflict, got %v", err)
		}
	})

	t.Run("request transition failure does not surface", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m := newPortal(t, ctrl)
		m.uc.now = func() time.Time { return now }

		offer := decidableOffer(now)
		m.offerRepo.EXPECT().GetByTokenHash(gomock.Any(), token.Hash(portalToken)).Return(offer, nil)
		m.offerRepo.EXPECT().UpdateClientDecision(gomock.Any(), "req-1", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
			entities.Offer{ID: "off-1", RequestID: "req-1", Status: entities.OfferStatusClientRejected}, nil)
		m.requestRepo.EXPECT().UpdateStatus(gomock.Any(), "req-1", gomock.Any(), gomock.Any()).Return(
			entities.ServiceRequest{}, interfaces.ErrStatusConflict)
		m.ledger.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		if _, err := m.uc.Decide(context.Background(), portalToken, DecisionReject, "Ada", "no"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

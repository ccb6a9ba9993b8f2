package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"nexus_consulting/internal/domain/entities"
	"nexus_consulting/internal/domain/pricing"
	"nexus_consulting/internal/domain/token"
	"nexus_consulting/internal/domain/workflow"
	"nexus_consulting/internal/usecase/interfaces"
	mock_interfaces "nexus_consulting/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func basePtr(v float64) *float64 { return &v }

func draftFinancial() pricing.FinancialPayload {
	return pricing.FinancialPayload{
		Currency: "EUR",
		VATRate:  0.15,
		Items: []pricing.LineItem{
			{Description: "consulting", Qty: 2, BaseCost: basePtr(100), ProfitPercent: 20, ContingencyPercent: 5, DiscountPercent: 10},
		},
	}
}

func acceptedRequest() entities.ServiceRequest {
	return entities.ServiceRequest{ID: "req-1", Status: entities.RequestStatusConsultantAccepted}
}

func TestOfferUseCase_SaveDraft(t *testing.T) {
	t.Run("invalid request id", func(t *testing.T) {
		uc := NewOfferUseCase(nil, nil, nil, 0, 0)
		_, err := uc.SaveDraft(context.Background(), "u1", "  ", nil, draftFinancial())
		if !errors.Is(err, ErrInvalidRequestID) {
			t.Fatalf("expected ErrInvalidRequestID, got %v", err)
		}
	})

	t.Run("request not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		requestRepo := mock_interfaces.NewMockIServiceRequestRepository(ctrl)
		uc := NewOfferUseCase(nil, requestRepo, nil, 0, 0)

		requestRepo.EXPECT().GetByID(gomock.Any(), "req-1").Return(entities.ServiceRequest{}, nil)

		_, err := uc.SaveDraft(context.Background(), "u1", "req-1", nil, draftFinancial())
		if !errors.Is(err, ErrRequestNotFound) {
			t.Fatalf("expected ErrRequestNotFound, got %v", err)
		}
	})

	t.Run("request not accepted yet", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		requestRepo := mock_interfaces.NewMockIServiceRequestRepository(ctrl)
		uc := NewOfferUseCase(nil, requestRepo, nil, 0, 0)

		requestRepo.EXPECT().GetByID(gomock.Any(), "req-1").Return(
			entities.ServiceRequest{ID: "req-1", Status: entities.RequestStatusPendingReview}, nil)

		_, err := uc.SaveDraft(context.Background(), "u1", "req-1", nil, draftFinancial())
		var notReady *RequestNotReadyError
		if !errors.As(err, &notReady) {
			t.Fatalf("expected RequestNotReadyError, got %v", err)
		}
		if notReady.Actual != entities.RequestStatusPendingReview || notReady.Required != entities.RequestStatusConsultantAccepted {
			t.Fatalf("unexpected error fields: %+v", notReady)
		}
	})

	t.Run("bad line item rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		requestRepo := mock_interfaces.NewMockIServiceRequestRepository(ctrl)
		uc := NewOfferUseCase(nil, requestRepo, nil, 0, 0)

		requestRepo.EXPECT().GetByID(gomock.Any(), "req-1").Return(acceptedRequest(), nil)

		financial := draftFinancial()
		financial.Items[0].Qty = -1
		_, err := uc.SaveDraft(context.Background(), "u1", "req-1", nil, financial)
		if !errors.Is(err, pricing.ErrNegativeQty) {
			t.Fatalf("expected ErrNegativeQty, got %v", err)
		}
	})

	t.Run("creates draft with recomputed totals", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOfferRepository(ctrl)
		requestRepo := mock_interfaces.NewMockIServiceRequestRepository(ctrl)
		ledger := mock_interfaces.NewMockIActivityLedger(ctrl)
		uc := NewOfferUseCase(repo, requestRepo, ledger, 0, 0)

		requestRepo.EXPECT().GetByID(gomock.Any(), "req-1").Return(acceptedRequest(), nil)
		repo.EXPECT().GetByRequestID(gomock.Any(), "req-1").Return(entities.Offer{}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Offer{})).DoAndReturn(
			func(_ context.Context, o entities.Offer) (entities.Offer, error) {
				if o.ID == "" || o.RequestID != "req-1" || o.Status != entities.OfferStatusDraft {
					t.Fatalf("unexpected offer: %+v", o)
				}
				got := o.Financial.Totals
				if got.Subtotal != 225 || got.VAT != 33.75 || got.Total != 258.75 {
					t.Fatalf("totals not recomputed: %+v", got)
				}
				return o, nil
			},
		)
		ledger.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		res, err := uc.SaveDraft(context.Background(), "u1", "req-1", nil, draftFinancial())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.TotalsMismatch {
			t.Fatal("expected no mismatch without a cached totals block")
		}
	})

	t.Run("stale caller totals flagged but overwritten", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOfferRepository(ctrl)
		requestRepo := mock_interfaces.NewMockIServiceRequestRepository(ctrl)
		ledger := mock_interfaces.NewMockIActivityLedger(ctrl)
		uc := NewOfferUseCase(repo, requestRepo, ledger, 0, 0)

		requestRepo.EXPECT().GetByID(gomock.Any(), "req-1").Return(acceptedRequest(), nil)
		repo.EXPECT().GetByRequestID(gomock.Any(), "req-1").Return(entities.Offer{}, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, o entities.Offer) (entities.Offer, error) {
				if o.Financial.Totals.Total != 258.75 {
					t.Fatalf("recomputed totals did not win: %+v", o.Financial.Totals)
				}
				return o, nil
			},
		)
		ledger.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		financial := draftFinancial()
		financial.Totals = pricing.Totals{Subtotal: 1, VAT: 2, Total: 3}
		res, err := uc.SaveDraft(context.Background(), "u1", "req-1", nil, financial)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.TotalsMismatch {
			t.Fatal("expected mismatch flag for stale totals")
		}
	})

	t.Run("updates editable offer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOfferRepository(ctrl)
		requestRepo := mock_interfaces.NewMockIServiceRequestRepository(ctrl)
		ledger := mock_interfaces.NewMockIActivityLedger(ctrl)
		uc := NewOfferUseCase(repo, requestRepo, ledger, 0, 0)

		existing := entities.Offer{ID: "off-1", RequestID: "req-1", Status: entities.OfferStatusManagerRejected}
		requestRepo.EXPECT().GetByID(gomock.Any(), "req-1").Return(acceptedRequest(), nil)
		repo.EXPECT().GetByRequestID(gomock.Any(), "req-1").Return(existing, nil)
		repo.EXPECT().UpdateDraft(gomock.Any(), "req-1", entities.OfferStatusManagerRejected, gomock.Any(), gomock.Any()).Return(
			entities.Offer{ID: "off-1", RequestID: "req-1", Status: entities.OfferStatusManagerRejected}, nil)
		ledger.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		if _, err := uc.SaveDraft(context.Background(), "u1", "req-1", nil, draftFinancial()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("submitted offer is frozen", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOfferRepository(ctrl)
		requestRepo := mock_interfaces.NewMockIServiceRequestRepository(ctrl)
		uc := NewOfferUseCase(repo, requestRepo, nil, 0, 0)

		requestRepo.EXPECT().GetByID(gomock.Any(), "req-1").Return(acceptedRequest(), nil)
		repo.EXPECT().GetByRequestID(gomock.Any(), "req-1").Return(
			entities.Offer{ID: "off-1", Status: entities.OfferStatusSubmittedToManager}, nil)

		_, err := uc.SaveDraft(context.Background(), "u1", "req-1", nil, draftFinancial())
		if !errors.Is(err, ErrOfferNotEditable) {
			t.Fatalf("expected ErrOfferNotEditable, got %v", err)
		}
	})
}

func TestOfferUseCase_Submit(t *testing.T) {
	t.Run("draft submits", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOfferRepository(ctrl)
		ledger := mock_interfaces.NewMockIActivityLedger(ctrl)
		uc := NewOfferUseCase(repo, nil, ledger, 0, 0)

		repo.EXPECT().GetByID(gomock.Any(), "off-1").Return(
			entities.Offer{ID: "off-1", RequestID: "req-1", Status: entities.OfferStatusDraft}, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "req-1", entities.OfferStatusDraft, entities.OfferStatusSubmittedToManager).Return(
			entities.Offer{ID: "off-1", RequestID: "req-1", Status: entities.OfferStatusSubmittedToManager}, nil)
		ledger.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		updated, err := uc.Submit(context.Background(), "u1", "off-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Status != entities.OfferStatusSubmittedToManager {
			t.Fatalf("unexpected status: %s", updated.Status)
		}
	})

	t.Run("double submit is an invalid transition", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOfferRepository(ctrl)
		uc := NewOfferUseCase(repo, nil, nil, 0, 0)

		repo.EXPECT().GetByID(gomock.Any(), "off-1").Return(
			entities.Offer{ID: "off-1", Status: entities.OfferStatusSubmittedToManager}, nil)

		_, err := uc.Submit(context.Background(), "u1", "off-1")
		var invalid *workflow.InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	})

	t.Run("lost cas", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOfferRepository(ctrl)
		uc := NewOfferUseCase(repo, nil, nil, 0, 0)

		repo.EXPECT().GetByID(gomock.Any(), "off-1").Return(
			entities.Offer{ID: "off-1", RequestID: "req-1", Status: entities.OfferStatusDraft}, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "req-1", gomock.Any(), gomock.Any()).Return(
			entities.Offer{}, interfaces.ErrStatusConflict)

		_, err := uc.Submit(context.Background(), "u1", "off-1")
		if !errors.Is(err, ErrConcurrentUpdate) {
			t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
		}
	})
}

func TestOfferUseCase_ManagerDecision(t *testing.T) {
	submitted := entities.Offer{ID: "off-1", RequestID: "req-1", Status: entities.OfferStatusSubmittedToManager}

	t.Run("unknown decision", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOfferRepository(ctrl)
		uc := NewOfferUseCase(repo, nil, nil, 0, 0)

		repo.EXPECT().GetByID(gomock.Any(), "off-1").Return(submitted, nil)

		_, _, err := uc.ManagerDecision(context.Background(), "mgr", "off-1", "accept", "")
		if !errors.Is(err, ErrInvalidDecision) {
			t.Fatalf("expected ErrInvalidDecision, got %v", err)
		}
	})

	t.Run("reject requires comment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOfferRepository(ctrl)
		uc := NewOfferUseCase(repo, nil, nil, 0, 0)

		repo.EXPECT().GetByID(gomock.Any(), "off-1").Return(submitted, nil)

		_, _, err := uc.ManagerDecision(context.Background(), "mgr", "off-1", DecisionReject, "  ")
		if !errors.Is(err, ErrCommentRequired) {
			t.Fatalf("expected ErrCommentRequired, got %v", err)
		}
	})

	t.Run("reject stores comment and mints no token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOfferRepository(ctrl)
		ledger := mock_interfaces.NewMockIActivityLedger(ctrl)
		uc := NewOfferUseCase(repo, nil, ledger, 0, 0)

		repo.EXPECT().GetByID(gomock.Any(), "off-1").Return(submitted, nil)
		repo.EXPECT().UpdateManagerDecision(gomock.Any(), "req-1", entities.OfferStatusSubmittedToManager, entities.OfferStatusManagerRejected, "too expensive", "", time.Time{}).Return(
			entities.Offer{ID: "off-1", RequestID: "req-1", Status: entities.OfferStatusManagerRejected, ManagerComment: "too expensive"}, nil)
		ledger.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		updated, plaintext, err := uc.ManagerDecision(context.Background(), "mgr", "off-1", DecisionReject, "too expensive")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plaintext != "" {
			t.Fatal("rejection must not mint a token")
		}
		if updated.Status != entities.OfferStatusManagerRejected {
			t.Fatalf("unexpected status: %s", updated.Status)
		}
	})

	t.Run("approve mints token and stores only the hash", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOfferRepository(ctrl)
		ledger := mock_interfaces.NewMockIActivityLedger(ctrl)
		uc := NewOfferUseCase(repo, nil, ledger, 0, 24*time.Hour)

		var storedHash string
		var storedExpiry time.Time
		repo.EXPECT().UpdateManagerDecision(gomock.Any(), "req-1", entities.OfferStatusSubmittedToManager, entities.OfferStatusManagerApproved, "", gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, _, next entities.OfferStatus, _, tokenHash string, expiresAt time.Time) (entities.Offer, error) {
				storedHash = tokenHash
				storedExpiry = expiresAt
				return entities.Offer{ID: "off-1", RequestID: "req-1", Status: next, TokenHash: tokenHash, TokenExpiresAt: expiresAt}, nil
			},
		)
		repo.EXPECT().GetByID(gomock.Any(), "off-1").Return(submitted, nil)
		ledger.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry entities.LedgerEntry) error {
				for _, v := range entry.Payload {
					if s, ok := v.(string); ok && storedHash != "" && token.Hash(s) == storedHash {
						t.Fatal("plaintext token leaked into ledger payload")
					}
				}
				return nil
			},
		)

		updated, plaintext, err := uc.ManagerDecision(context.Background(), "mgr", "off-1", DecisionApprove, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plaintext == "" {
			t.Fatal("expected a plaintext token on approval")
		}
		if !token.Matches(plaintext, storedHash) {
			t.Fatal("stored hash does not match the returned token")
		}
		if updated.TokenHash != storedHash {
			t.Fatal("offer does not carry the stored hash")
		}
		if storedExpiry.Before(time.Now().UTC().Add(23 * time.Hour)) {
			t.Fatalf("expiry not pushed out by the ttl: %v", storedExpiry)
		}
	})

	t.Run("decision on a draft is invalid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOfferRepository(ctrl)
		uc := NewOfferUseCase(repo, nil, nil, 0, 0)

		repo.EXPECT().GetByID(gomock.Any(), "off-1").Return(
			entities.Offer{ID: "off-1", Status: entities.OfferStatusDraft}, nil)

		_, _, err := uc.ManagerDecision(context.Background(), "mgr", "off-1", DecisionApprove, "")
		var invalid *workflow.InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	})
}

func TestOfferUseCase_GetByID(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc := NewOfferUseCase(nil, nil, nil, 0, 0)
		_, err := uc.GetByID(context.Background(), " ")
		if !errors.Is(err, ErrInvalidOfferID) {
			t.Fatalf("expected ErrInvalidOfferID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOfferRepository(ctrl)
		uc := NewOfferUseCase(repo, nil, nil, 0, 0)

		repo.EXPECT().GetByID(gomock.Any(), "missing").Return(entities.Offer{}, nil)

		_, err := uc.GetByID(context.Background(), "missing")
		if !errors.Is(err, ErrOfferNotFound) {
			t.Fatalf("expected ErrOfferNotFound, got %v", err)
		}
	})
}

package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"
	"woodzire_server/database"
	"woodzire_server/lib"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

var (
	ErrCampaignNotFound = fmt.Errorf("campaign %w", lib.ErrNotFound)
	ErrCampaignNotDraft = fmt.Errorf("campaign has already been sent: %w", lib.ErrConflict)
)

const (
	VariantA = "a"
	VariantB = "b"

	campaignSendLimit = 5
)

// CampaignView is a campaign with its optional A/B test.
type CampaignView struct {
	tables.EmailCampaign
	ABTest *tables.EmailABTest `json:"ab_test,omitempty"`
}

type CampaignService struct {
	logger   *gecho.Logger
	db       *database.DB
	notifier *NotificationService
	now      func() time.Time
}

func NewCampaignService(logger *gecho.Logger, db *database.DB, notifier *NotificationService) *CampaignService {
	return &CampaignService{logger: logger, db: db, notifier: notifier, now: time.Now}
}

// AssignVariant puts an email in variant B when its hash bucket (0..99)
// falls below splitPercentage. The same email always lands in the same
// variant.
func AssignVariant(email string, splitPercentage int) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalizeEmail(email)))
	if int(h.Sum32()%100) < splitPercentage {
		return VariantB
	}
	return VariantA
}

func (cs *CampaignService) ListCampaigns(ctx context.Context) ([]tables.EmailCampaign, error) {
	campaigns, err := database.Query[tables.EmailCampaign](cs.db).OrderBy("created_at", database.DESC).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", lib.MapPgError(err))
	}
	return campaigns, nil
}

func (cs *CampaignService) GetCampaign(ctx context.Context, id uuid.UUID) (*CampaignView, error) {
	campaign, err := database.FindByID[tables.EmailCampaign](cs.db, ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign: %w", lib.MapPgError(err))
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	test, err := database.Query[tables.EmailABTest](cs.db).Where("campaign_id", id).First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ab test: %w", lib.MapPgError(err))
	}
	return &CampaignView{EmailCampaign: *campaign, ABTest: test}, nil
}

func (cs *CampaignService) CreateCampaign(ctx context.Context, req *structs.CampaignRequest) (*CampaignView, error) {
	view, err := database.TransactionWithResult(cs.db, ctx, func(ctx context.Context, tx bun.Tx) (*CampaignView, error) {
		campaign := &tables.EmailCampaign{
			Name:    strings.TrimSpace(req.Name),
			Subject: strings.TrimSpace(req.Subject),
			Content: req.Content,
			Status:  tables.CampaignStatusDraft,
		}
		if _, err := database.QueryTx[tables.EmailCampaign](tx).Insert(ctx, campaign); err != nil {
			return nil, lib.MapPgError(err)
		}
		test, err := saveABTest(ctx, tx, campaign.ID, req.ABTest)
		if err != nil {
			return nil, err
		}
		return &CampaignView{EmailCampaign: *campaign, ABTest: test}, nil
	})
	if err != nil {
		cs.logger.Error("Failed to create campaign", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	cs.logger.Info("Campaign created", gecho.Field("id", view.ID), gecho.Field("ab_test", view.ABTest != nil))
	return view, nil
}

// UpdateCampaign edits a draft. Omitting ab_test removes any existing test.
func (cs *CampaignService) UpdateCampaign(ctx context.Context, id uuid.UUID, req *structs.CampaignRequest) (*CampaignView, error) {
	return database.TransactionWithResult(cs.db, ctx, func(ctx context.Context, tx bun.Tx) (*CampaignView, error) {
		campaign, err := database.QueryTx[tables.EmailCampaign](tx).Where("id", id).ForUpdate().First(ctx)
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		if campaign == nil {
			return nil, ErrCampaignNotFound
		}
		if campaign.Status != tables.CampaignStatusDraft {
			return nil, ErrCampaignNotDraft
		}

		campaign.Name = strings.TrimSpace(req.Name)
		campaign.Subject = strings.TrimSpace(req.Subject)
		campaign.Content = req.Content
		if err := database.QueryTx[tables.EmailCampaign](tx).UpdateModel(ctx, campaign, "name", "subject", "content"); err != nil {
			return nil, lib.MapPgError(err)
		}

		if _, err := database.QueryTx[tables.EmailABTest](tx).Where("campaign_id", id).Delete(ctx); err != nil {
			return nil, lib.MapPgError(err)
		}
		test, err := saveABTest(ctx, tx, id, req.ABTest)
		if err != nil {
			return nil, err
		}
		return &CampaignView{EmailCampaign: *campaign, ABTest: test}, nil
	})
}

func saveABTest(ctx context.Context, tx bun.Tx, campaignID uuid.UUID, req *structs.ABTestRequest) (*tables.EmailABTest, error) {
	if req == nil {
		return nil, nil
	}
	test := &tables.EmailABTest{
		CampaignID:      campaignID,
		SubjectB:        strings.TrimSpace(req.SubjectB),
		SplitPercentage: req.SplitPercentage,
	}
	if _, err := database.QueryTx[tables.EmailABTest](tx).Insert(ctx, test); err != nil {
		return nil, lib.MapPgError(err)
	}
	return test, nil
}

// DeleteCampaign removes the campaign with its test and analytics.
func (cs *CampaignService) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	return database.Transaction(cs.db, ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.QueryTx[tables.EmailAnalytics](tx).Where("campaign_id", id).Delete(ctx); err != nil {
			return lib.MapPgError(err)
		}
		if _, err := database.QueryTx[tables.EmailABTest](tx).Where("campaign_id", id).Delete(ctx); err != nil {
			return lib.MapPgError(err)
		}
		affected, err := database.QueryTx[tables.EmailCampaign](tx).Where("id", id).Delete(ctx)
		if err != nil {
			return lib.MapPgError(err)
		}
		if affected == 0 {
			return ErrCampaignNotFound
		}
		return nil
	})
}

// SendCampaign mails every marketing opt-in. The draft is claimed first so
// two concurrent sends cannot both go out.
func (cs *CampaignService) SendCampaign(ctx context.Context, id uuid.UUID) (*structs.CampaignSendResult, error) {
	startTime := time.Now()

	view, err := cs.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	claimed, err := database.Query[tables.EmailCampaign](cs.db).
		Where("id", id).
		Where("status", tables.CampaignStatusDraft).
		Update(ctx, map[string]any{"status": tables.CampaignStatusSending})
	if err != nil {
		return nil, fmt.Errorf("failed to claim campaign: %w", lib.MapPgError(err))
	}
	if claimed == 0 {
		return nil, ErrCampaignNotDraft
	}

	recipients, err := database.Query[tables.EmailPreference](cs.db).Where("marketing_opt_in", true).All(ctx)
	if err != nil {
		cs.resetToDraft(id)
		return nil, fmt.Errorf("failed to load recipients: %w", lib.MapPgError(err))
	}

	var mu sync.Mutex
	rows := make([]tables.EmailAnalytics, 0, len(recipients))
	result := &structs.CampaignSendResult{Recipients: len(recipients)}

	g := new(errgroup.Group)
	g.SetLimit(campaignSendLimit)
	for _, r := range recipients {
		g.Go(func() error {
			variant, subject := VariantA, view.Subject
			if view.ABTest != nil {
				variant = AssignVariant(r.Email, view.ABTest.SplitPercentage)
				if variant == VariantB {
					subject = view.ABTest.SubjectB
				}
			}

			row := tables.EmailAnalytics{
				CampaignID:     id,
				RecipientEmail: r.Email,
				Variant:        variant,
				Status:         "sent",
				CreatedAt:      time.Now(),
			}
			if err := cs.notifier.SendCampaignEmail(r.Email, subject, view.Content, r.UnsubscribeToken); err != nil {
				row.Status = "failed"
				row.Error = err.Error()
			}

			mu.Lock()
			rows = append(rows, row)
			if row.Status == "sent" {
				result.Sent++
			} else {
				result.Failed++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	now := cs.now()
	err = database.Transaction(cs.db, ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.QueryTx[tables.EmailAnalytics](tx).InsertMany(ctx, rows); err != nil {
			return lib.MapPgError(err)
		}
		_, err := database.QueryTx[tables.EmailCampaign](tx).Where("id", id).Update(ctx, map[string]any{
			"status":          tables.CampaignStatusSent,
			"recipient_count": len(recipients),
			"sent_at":         now,
		})
		return lib.MapPgError(err)
	})
	if err != nil {
		cs.logger.Error("Campaign sent but analytics were not recorded", gecho.Field("id", id), gecho.Field("error", err))
		return result, fmt.Errorf("failed to record campaign results: %w", err)
	}

	cs.logger.Info("Campaign sent",
		gecho.Field("id", id),
		gecho.Field("recipients", result.Recipients),
		gecho.Field("sent", result.Sent),
		gecho.Field("failed", result.Failed),
		gecho.Field("duration", time.Since(startTime)))
	return result, nil
}

func (cs *CampaignService) resetToDraft(id uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := database.Query[tables.EmailCampaign](cs.db).Where("id", id).Update(ctx, map[string]any{"status": tables.CampaignStatusDraft}); err != nil {
		cs.logger.Warn("Failed to reset campaign to draft", gecho.Field("id", id), gecho.Field("error", err))
	}
}

func (cs *CampaignService) CampaignStats(ctx context.Context, id uuid.UUID) (*structs.CampaignStats, error) {
	exists, err := database.Query[tables.EmailCampaign](cs.db).Where("id", id).Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign: %w", lib.MapPgError(err))
	}
	if !exists {
		return nil, ErrCampaignNotFound
	}
	rows, err := database.Query[tables.EmailAnalytics](cs.db).Where("campaign_id", id).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign analytics: %w", lib.MapPgError(err))
	}
	return aggregateCampaignStats(id, rows), nil
}

func aggregateCampaignStats(id uuid.UUID, rows []tables.EmailAnalytics) *structs.CampaignStats {
	stats := &structs.CampaignStats{
		CampaignID: id,
		Total:      len(rows),
		Variants:   make(map[string]structs.VariantStat),
	}
	for _, r := range rows {
		v := stats.Variants[r.Variant]
		switch r.Status {
		case "failed":
			stats.Failed++
			v.Failed++
		default:
			stats.Sent++
			v.Sent++
		}
		if r.OpenedAt != nil {
			stats.Opened++
			v.Opened++
		}
		if r.ClickedAt != nil {
			stats.Clicked++
		}
		stats.Variants[r.Variant] = v
	}
	return stats
}

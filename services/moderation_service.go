package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"woodzire_server/database"
	"woodzire_server/lib"
	"woodzire_server/structs"
	"woodzire_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

var (
	ErrReviewNotFound      = fmt.Errorf("review %w", lib.ErrNotFound)
	ErrTestimonialNotFound = fmt.Errorf("testimonial %w", lib.ErrNotFound)
	ErrInquiryNotFound     = fmt.Errorf("inquiry %w", lib.ErrNotFound)
)

// ModerationService handles testimonials, reviews and inquiries.
type ModerationService struct {
	logger   *gecho.Logger
	db       *database.DB
	notifier *NotificationService
}

func NewModerationService(logger *gecho.Logger, db *database.DB, notifier *NotificationService) *ModerationService {
	return &ModerationService{logger: logger, db: db, notifier: notifier}
}

func (ms *ModerationService) ListTestimonials(ctx context.Context, includeInactive bool) ([]tables.Testimonial, error) {
	query := database.Query[tables.Testimonial](ms.db).
		OrderBy("sort_order", database.ASC).
		OrderBy("created_at", database.DESC)
	if !includeInactive {
		query = query.Where("is_active", true)
	}
	testimonials, err := query.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", lib.MapPgError(err))
	}
	return testimonials, nil
}

func (ms *ModerationService) CreateTestimonial(ctx context.Context, req *structs.TestimonialRequest) (*tables.Testimonial, error) {
	created, err := database.Query[tables.Testimonial](ms.db).Insert(ctx, &tables.Testimonial{
		CustomerName: strings.TrimSpace(req.CustomerName),
		Location:     strings.TrimSpace(req.Location),
		Content:      strings.TrimSpace(req.Content),
		Rating:       req.Rating,
		ImageURL:     strings.TrimSpace(req.ImageURL),
		IsActive:     req.IsActive,
		SortOrder:    req.SortOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create testimonial: %w", lib.MapPgError(err))
	}
	ms.logger.Info("Testimonial created", gecho.Field("id", created.ID))
	return created, nil
}

// ToggleTestimonial flips is_active and returns the new state.
func (ms *ModerationService) ToggleTestimonial(ctx context.Context, id uuid.UUID) (*tables.Testimonial, error) {
	affected, err := database.Query[tables.Testimonial](ms.db).Where("id", id).UpdateRaw(ctx, "is_active = NOT is_active")
	if err != nil {
		return nil, fmt.Errorf("failed to toggle testimonial: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return nil, ErrTestimonialNotFound
	}
	testimonial, err := database.FindByID[tables.Testimonial](ms.db, ctx, id)
	if err != nil || testimonial == nil {
		return nil, fmt.Errorf("failed to reload testimonial: %w", lib.MapPgError(err))
	}
	return testimonial, nil
}

func (ms *ModerationService) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	return ms.deleteOne("testimonial", id, ErrTestimonialNotFound, func() (int, error) {
		return database.DeleteByID[tables.Testimonial](ms.db, ctx, id)
	})
}

// ProductReviews lists approved reviews with their average rating.
func (ms *ModerationService) ProductReviews(ctx context.Context, productID uuid.UUID) (*structs.ReviewSummary, error) {
	reviews, err := database.Query[tables.Review](ms.db).
		Where("product_id", productID).
		Where("is_approved", true).
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", lib.MapPgError(err))
	}
	return &structs.ReviewSummary{
		Reviews:       reviews,
		Count:         len(reviews),
		AverageRating: averageRating(reviews),
	}, nil
}

// averageRating rounds to one decimal; no reviews averages to 0.
func averageRating(reviews []tables.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

// SubmitReview stores an unapproved review for an active product.
func (ms *ModerationService) SubmitReview(ctx context.Context, productID uuid.UUID, req *structs.ReviewRequest, userID *uuid.UUID) (*tables.Review, error) {
	exists, err := database.Query[tables.Product](ms.db).Where("id", productID).Where("is_active", true).Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", lib.MapPgError(err))
	}
	if !exists {
		return nil, ErrProductNotFound
	}

	review, err := database.Query[tables.Review](ms.db).Insert(ctx, &tables.Review{
		ProductID:     productID,
		UserID:        userID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		Rating:        req.Rating,
		Title:         strings.TrimSpace(req.Title),
		Content:       strings.TrimSpace(req.Content),
	})
	if err != nil {
		ms.logger.Error("Failed to save review", gecho.Field("product_id", productID), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to save review: %w", lib.MapPgError(err))
	}
	ms.logger.Info("Review submitted", gecho.Field("id", review.ID), gecho.Field("product_id", productID))
	return review, nil
}

func (ms *ModerationService) ListReviews(ctx context.Context, pendingOnly bool, page, pageSize int) (*database.PaginationResult[tables.Review], error) {
	query := database.Query[tables.Review](ms.db).OrderBy("created_at", database.DESC)
	if pendingOnly {
		query = query.Where("is_approved", false)
	}
	result, err := database.Paginate(query, ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", lib.MapPgError(err))
	}
	return result, nil
}

func (ms *ModerationService) ApproveReview(ctx context.Context, id uuid.UUID) error {
	affected, err := database.UpdateByID[tables.Review](ms.db, ctx, id, map[string]any{"is_approved": true})
	if err != nil {
		return fmt.Errorf("failed to approve review: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return ErrReviewNotFound
	}
	ms.logger.Info("Review approved", gecho.Field("id", id))
	return nil
}

func (ms *ModerationService) DeleteReview(ctx context.Context, id uuid.UUID) error {
	return ms.deleteOne("review", id, ErrReviewNotFound, func() (int, error) {
		return database.DeleteByID[tables.Review](ms.db, ctx, id)
	})
}

// SubmitInquiry stores the message and alerts the admins.
func (ms *ModerationService) SubmitInquiry(ctx context.Context, req *structs.InquiryRequest) (*tables.Inquiry, error) {
	inquiry, err := database.Query[tables.Inquiry](ms.db).Insert(ctx, &tables.Inquiry{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	})
	if err != nil {
		ms.logger.Error("Failed to save inquiry", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to save inquiry: %w", lib.MapPgError(err))
	}

	ms.notifier.DispatchAsync(&structs.NotificationPayload{
		Type:    structs.NotificationAdminAlert,
		Message: inquiryAlert(inquiry),
	})
	return inquiry, nil
}

func inquiryAlert(i *tables.Inquiry) string {
	subject := i.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	return fmt.Sprintf("New inquiry from %s <%s>: %s\n\n%s", i.Name, i.Email, subject, i.Message)
}

func (ms *ModerationService) ListInquiries(ctx context.Context, unreadOnly bool, page, pageSize int) (*database.PaginationResult[tables.Inquiry], error) {
	query := database.Query[tables.Inquiry](ms.db).OrderBy("created_at", database.DESC)
	if unreadOnly {
		query = query.Where("is_read", false)
	}
	result, err := database.Paginate(query, ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", lib.MapPgError(err))
	}
	return result, nil
}

func (ms *ModerationService) MarkInquiryRead(ctx context.Context, id uuid.UUID) error {
	affected, err := database.UpdateByID[tables.Inquiry](ms.db, ctx, id, map[string]any{"is_read": true})
	if err != nil {
		return fmt.Errorf("failed to mark inquiry read: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return ErrInquiryNotFound
	}
	return nil
}

func (ms *ModerationService) DeleteInquiry(ctx context.Context, id uuid.UUID) error {
	return ms.deleteOne("inquiry", id, ErrInquiryNotFound, func() (int, error) {
		return database.DeleteByID[tables.Inquiry](ms.db, ctx, id)
	})
}

func (ms *ModerationService) deleteOne(kind string, id uuid.UUID, notFound error, del func() (int, error)) error {
	affected, err := del()
	if err != nil {
		ms.logger.Error("Failed to delete "+kind, gecho.Field("id", id), gecho.Field("error", err))
		return fmt.Errorf("failed to delete %s: %w", kind, lib.MapPgError(err))
	}
	if affected == 0 {
		return notFound
	}
	ms.logger.Info("Deleted "+kind, gecho.Field("id", id))
	return nil
}

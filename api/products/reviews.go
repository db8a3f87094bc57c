package products

import (
	"context"
	"net/http"
	"woodzire_server/api/middleware"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// productRef accepts either a product id or a slug.
func (prm *ProductRoutesManager) productRef(ctx context.Context, ref string) (uuid.UUID, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	product, err := prm.productService.GetProductBySlug(ctx, ref, false)
	if err != nil {
		return uuid.Nil, err
	}
	return product.ID, nil
}

func (prm *ProductRoutesManager) FetchReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := prm.productRef(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		handling.HandleServiceError(err, "reviews", prm.logger, w)
		return
	}

	summary, err := prm.moderationService.ProductReviews(r.Context(), productID)
	if err != nil {
		handling.HandleServiceError(err, "reviews", prm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(summary), gecho.Send())
}

// SubmitReview queues a review for moderation. Signed-in reviewers are linked
// to their account.
func (prm *ProductRoutesManager) SubmitReview(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ReviewRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "reviews", prm.logger, w)
		return
	}

	productID, err := prm.productRef(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		handling.HandleServiceError(err, "reviews", prm.logger, w)
		return
	}

	var userID *uuid.UUID
	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok {
		userID = &claims.Sub
	}

	review, err := prm.moderationService.SubmitReview(r.Context(), productID, body, userID)
	if err != nil {
		handling.HandleServiceError(err, "reviews", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.reviews.submitted"),
		gecho.WithData(review),
		gecho.Send(),
	)
}

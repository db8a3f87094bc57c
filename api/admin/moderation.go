package admin

import (
	"net/http"
	"woodzire_server/handling"
	"woodzire_server/lib"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListReviews(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePagination(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("error.invalidQueryParameters"), gecho.WithData(err.Error()), gecho.Send())
		return
	}

	reviews, err := ar.sm.ModerationService.ListReviews(r.Context(), handling.QueryFlag(r, "pending"), page, pageSize)
	if err != nil {
		handling.HandleServiceError(err, "reviews", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(reviews), gecho.Send())
}

func (ar *AdminRoutesManager) ApproveReview(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "reviews")
	if !ok {
		return
	}
	if err := ar.sm.ModerationService.ApproveReview(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "reviews", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.reviews.approved"), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "reviews")
	if !ok {
		return
	}
	if err := ar.sm.ModerationService.DeleteReview(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "reviews", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.reviews.deleted"), gecho.Send())
}

func (ar *AdminRoutesManager) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := ar.sm.ModerationService.ListTestimonials(r.Context(), true)
	if err != nil {
		handling.HandleServiceError(err, "testimonials", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(testimonials), gecho.Send())
}

func (ar *AdminRoutesManager) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.TestimonialRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "testimonials", ar.logger, w)
		return
	}

	testimonial, err := ar.sm.ModerationService.CreateTestimonial(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "testimonials", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.testimonials.created"), gecho.WithData(testimonial), gecho.Send())
}

// ToggleTestimonial flips is_active and returns the new row.
func (ar *AdminRoutesManager) ToggleTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "testimonials")
	if !ok {
		return
	}
	testimonial, err := ar.sm.ModerationService.ToggleTestimonial(r.Context(), id)
	if err != nil {
		handling.HandleServiceError(err, "testimonials", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(testimonial), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "testimonials")
	if !ok {
		return
	}
	if err := ar.sm.ModerationService.DeleteTestimonial(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "testimonials", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.testimonials.deleted"), gecho.Send())
}

func (ar *AdminRoutesManager) ListInquiries(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePagination(r)
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("error.invalidQueryParameters"), gecho.WithData(err.Error()), gecho.Send())
		return
	}

	inquiries, err := ar.sm.ModerationService.ListInquiries(r.Context(), handling.QueryFlag(r, "unread"), page, pageSize)
	if err != nil {
		handling.HandleServiceError(err, "inquiries", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(inquiries), gecho.Send())
}

func (ar *AdminRoutesManager) MarkInquiryRead(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "inquiries")
	if !ok {
		return
	}
	if err := ar.sm.ModerationService.MarkInquiryRead(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "inquiries", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.inquiries.read"), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteInquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := ar.pathID(w, r, "inquiries")
	if !ok {
		return
	}
	if err := ar.sm.ModerationService.DeleteInquiry(r.Context(), id); err != nil {
		handling.HandleServiceError(err, "inquiries", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("success.inquiries.deleted"), gecho.Send())
}

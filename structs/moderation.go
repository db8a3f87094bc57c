package structs

type ReviewRequest struct {
	CustomerName  string `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	Rating        int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title         string `json:"title,omitempty" validate:"omitempty,max=200"`
	Content       string `json:"content,omitempty" validate:"omitempty,max=5000"`
}

type InquiryRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
	Subject string `json:"subject,omitempty" validate:"omitempty,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type TestimonialRequest struct {
	CustomerName string `json:"customer_name" validate:"required,min=2,max=100"`
	Location     string `json:"location,omitempty" validate:"omitempty,max=100"`
	Content      string `json:"content" validate:"required,max=2000"`
	Rating       int    `json:"rating" validate:"required,gte=1,lte=5"`
	ImageURL     string `json:"image_url,omitempty" validate:"omitempty,max=2000"`
	IsActive     bool   `json:"is_active"`
	SortOrder    int    `json:"sort_order"`
}

type ReviewSummary struct {
	Reviews       any     `json:"reviews"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

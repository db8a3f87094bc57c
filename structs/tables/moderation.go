package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Testimonial struct {
	bun.BaseModel `bun:"table:testimonials,alias:t"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	CustomerName string    `bun:"customer_name,notnull" json:"customer_name"`
	Location     string    `bun:"location" json:"location,omitempty"`
	Content      string    `bun:"content,notnull" json:"content"`
	Rating       int       `bun:"rating,notnull,default:5" json:"rating"`
	ImageURL     string    `bun:"image_url" json:"image_url,omitempty"`
	IsActive     bool      `bun:"is_active,notnull,default:false" json:"is_active"`
	SortOrder    int       `bun:"sort_order,notnull,default:0" json:"sort_order"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`

	ID            uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ProductID     uuid.UUID  `bun:"product_id,type:uuid,notnull" json:"product_id"`
	UserID        *uuid.UUID `bun:"user_id,type:uuid" json:"user_id,omitempty"`
	CustomerName  string     `bun:"customer_name,notnull" json:"customer_name"`
	CustomerEmail string     `bun:"customer_email,notnull" json:"-"`
	Rating        int        `bun:"rating,notnull" json:"rating"`
	Title         string     `bun:"title" json:"title,omitempty"`
	Content       string     `bun:"content" json:"content,omitempty"`
	IsApproved    bool       `bun:"is_approved,notnull,default:false" json:"is_approved"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type Inquiry struct {
	bun.BaseModel `bun:"table:inquiries,alias:iq"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,notnull" json:"email"`
	Phone     string    `bun:"phone" json:"phone,omitempty"`
	Subject   string    `bun:"subject" json:"subject,omitempty"`
	Message   string    `bun:"message,notnull" json:"message"`
	IsRead    bool      `bun:"is_read,notnull,default:false" json:"is_read"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

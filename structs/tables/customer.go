package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// Rank orders roles so the highest grant wins when a user holds several.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleModerator:
		return 2
	case RoleUser:
		return 1
	}
	return 0
}

func (r Role) IsValid() bool {
	return r.Rank() > 0
}

// IsStaff reports whether the role may use the back office.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleModerator
}

type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:pr"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Email        string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	FullName     string     `bun:"full_name" json:"full_name,omitempty"`
	Phone        string     `bun:"phone" json:"phone,omitempty"`
	LastLogin    *time.Time `bun:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type UserRole struct {
	bun.BaseModel `bun:"table:user_roles,alias:ur"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `bun:"user_id,type:uuid,notnull,unique:user_role" json:"user_id"`
	Role      Role      `bun:"role,notnull,unique:user_role" json:"role"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type Address struct {
	bun.BaseModel `bun:"table:addresses,alias:ad"`

	ID     uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `bun:"user_id,type:uuid,notnull" json:"user_id"`
	Label  string    `bun:"label" json:"label,omitempty"`
	ShippingAddress
	IsDefault bool      `bun:"is_default,notnull,default:false" json:"is_default"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type WishlistItem struct {
	bun.BaseModel `bun:"table:wishlist_items,alias:wl"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `bun:"user_id,type:uuid,notnull,unique:user_product" json:"user_id"`
	ProductID uuid.UUID `bun:"product_id,type:uuid,notnull,unique:user_product" json:"product_id"`
	Product   *Product  `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// StockAlert is a back-in-stock subscription.
type StockAlert struct {
	bun.BaseModel `bun:"table:stock_alerts,alias:sa"`

	ID         uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ProductID  uuid.UUID  `bun:"product_id,type:uuid,notnull,unique:product_email" json:"product_id"`
	Email      string     `bun:"email,notnull,unique:product_email" json:"email"`
	NotifiedAt *time.Time `bun:"notified_at" json:"notified_at,omitempty"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

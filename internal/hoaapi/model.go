package hoaapi

import "time"

type Role string

const (
	RoleResident    Role = "resident"
	RoleBoardMember Role = "board_member"
	RoleAdmin       Role = "admin"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSuccessful PaymentStatus = "successful"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
)

type PaymentMethod string

const (
	MethodGCash  PaymentMethod = "gcash"
	MethodStripe PaymentMethod = "stripe"
	MethodPayPal PaymentMethod = "paypal"
)

type NotificationType string

const (
	NotificationPaymentReminder NotificationType = "payment_reminder"
	NotificationPaymentSuccess  NotificationType = "payment_success"
	NotificationAnnouncement    NotificationType = "announcement"
	NotificationEvent           NotificationType = "event"
	NotificationDiscussion      NotificationType = "discussion"
	NotificationSystem          NotificationType = "system"
)

// User is the account record as the Core API reports it. The portal never
// persists users itself, only the session snapshot derived from one.
type User struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       Role      `json:"role"`
	UnitNumber string    `json:"unit_number,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Picture    string    `json:"picture,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Payment struct {
	PaymentID     string        `json:"payment_id"`
	UserID        string        `json:"user_id"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transaction_id,omitempty"`
	Description   string        `json:"description,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type Announcement struct {
	AnnouncementID string    `json:"announcement_id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Priority       string    `json:"priority"`
	Tags           []string  `json:"tags"`
	AuthorID       string    `json:"author_id"`
	AuthorName     string    `json:"author_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Notification struct {
	NotificationID   string           `json:"notification_id"`
	Title            string           `json:"title"`
	Message          string           `json:"message"`
	NotificationType NotificationType `json:"notification_type"`
	RecipientID      string           `json:"recipient_id"`
	Read             bool             `json:"read"`
	CreatedAt        time.Time        `json:"created_at"`
}

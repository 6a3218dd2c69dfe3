package domain

import (
	"time"
)

// Property is an immutable catalog listing
type Property struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Location    string   `json:"location"` // "Area, Region"
	Price       string   `json:"price"`    // formatted, e.g. "Ksh 18,000,000"
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	Area        string   `json:"area"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Features    []string `json:"features"`
}

// DefaultCartImage is used for cart items whose property has no image
const DefaultCartImage = "/api/placeholder/300/200"

// CartItem is the projection of a Property kept in the cart
type CartItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Location string `json:"location"`
	Image    string `json:"image"`
}

// NewCartItem projects a property into a cart item
func NewCartItem(p Property) CartItem {
	image := p.Image
	if image == "" {
		image = DefaultCartImage
	}
	return CartItem{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Location: p.Location,
		Image:    image,
	}
}

// Theme is the visitor's colour scheme preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// IsValid checks the theme is a known value
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Opposite returns the other theme
func (t Theme) Opposite() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// User is the mock signed-in session stored under the "user" key
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ClientState aggregates the independently persisted collections of one visitor.
// There is no transactional guarantee across its fields.
type ClientState struct {
	Cart       []CartItem
	Favorites  []Property
	Comparison []Property
	Theme      Theme // empty when nothing was stored
	User       *User
}

// PaymentMethod is one of the mock payment panels offered at checkout
type PaymentMethod string

const (
	PaymentMethodMpesa PaymentMethod = "mpesa"
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodBank  PaymentMethod = "bank"
)

// PaymentMethods lists the methods in display order
var PaymentMethods = []PaymentMethod{PaymentMethodMpesa, PaymentMethodCard, PaymentMethodBank}

// IsValid checks the payment method is supported
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodMpesa, PaymentMethodCard, PaymentMethodBank:
		return true
	}
	return false
}

// OrderStatus is the state of a completed order
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "Confirmed"
)

// Customer holds the contact details captured at checkout
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Order is an append-only record of a completed purchase
type Order struct {
	OrderID       string        `json:"orderId"`
	Customer      Customer      `json:"customer"`
	Items         []CartItem    `json:"items"`
	TotalAmount   int64         `json:"totalAmount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	OrderDate     time.Time     `json:"orderDate"`
	Status        OrderStatus   `json:"status"`
}

// Viewing is a request to visit a property in person
type Viewing struct {
	PropertyID    string    `json:"propertyId"`
	PropertyTitle string    `json:"propertyTitle"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Date          string    `json:"date"` // YYYY-MM-DD
	Time          string    `json:"time"` // HH:MM
	RequestedAt   time.Time `json:"requestedAt"`
}

// NotificationType classifies user-facing notification text
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
)

// Notification is transient UI text describing the outcome of an action
type Notification struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

// Success builds a success notification
func Success(message string) Notification {
	return Notification{Type: NotificationSuccess, Message: message}
}

// Failure builds an error notification
func Failure(message string) Notification {
	return Notification{Type: NotificationError, Message: message}
}

// ClientStateEntry is one row of the SQL key-value backend
type ClientStateEntry struct {
	Key       string    `gorm:"column:state_key;primaryKey;size:255"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName overrides the table name
func (ClientStateEntry) TableName() string {
	return "client_state_entries"
}

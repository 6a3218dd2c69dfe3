package domain

// DTOs for API responses

// CartView is the cart sidebar: items, count badge and total
type CartView struct {
	Items          []CartItem `json:"items"`
	Count          int        `json:"count"`
	Total          int64      `json:"total"`
	FormattedTotal string     `json:"formattedTotal"`
}

// ComparisonItemDTO is one entry of the floating comparison toolbar
type ComparisonItemDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

// ComparisonToolbarDTO summarises the comparison set
type ComparisonToolbarDTO struct {
	Visible bool                `json:"visible"`
	Count   int                 `json:"count"`
	Items   []ComparisonItemDTO `json:"items"`
}

// ComparisonView carries both the per-card indicators and the toolbar,
// always derived from the same persisted set
type ComparisonView struct {
	Compared map[string]bool      `json:"compared"`
	Toolbar  ComparisonToolbarDTO `json:"toolbar"`
}

// ComparisonRowDTO is one feature row of the side-by-side table
type ComparisonRowDTO struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// ComparisonTableDTO lays out the comparison set column by column in insertion order
type ComparisonTableDTO struct {
	Columns []ComparisonItemDTO `json:"columns"`
	Rows    []ComparisonRowDTO  `json:"rows"`
}

// FavoritesView lists favorites and the per-card indicators
type FavoritesView struct {
	Items    []Property      `json:"items"`
	Favorite map[string]bool `json:"favorite"`
}

// StateDTO is the full client state as the storefront needs it on page load
type StateDTO struct {
	Cart            CartView       `json:"cart"`
	Favorites       FavoritesView  `json:"favorites"`
	Comparison      ComparisonView `json:"comparison"`
	Theme           Theme          `json:"theme"`
	User            *User          `json:"user,omitempty"`
	Recommendations []Property     `json:"recommendations"`
}

// CartResponse is returned by cart mutations
type CartResponse struct {
	Notification Notification `json:"notification"`
	Cart         CartView     `json:"cart"`
}

// FavoritesResponse is returned by favorite toggles, with refreshed recommendations
type FavoritesResponse struct {
	Notification    Notification  `json:"notification"`
	Favorites       FavoritesView `json:"favorites"`
	Recommendations []Property    `json:"recommendations"`
}

// ComparisonResponse is returned by comparison transitions
type ComparisonResponse struct {
	Notification *Notification  `json:"notification,omitempty"`
	Comparison   ComparisonView `json:"comparison"`
}

// ThemeResponse is returned by theme reads and writes
type ThemeResponse struct {
	Theme Theme `json:"theme"`
}

// PaymentInstructionsDTO is the display-only panel for one payment method
type PaymentInstructionsDTO struct {
	Method         PaymentMethod     `json:"method"`
	Label          string            `json:"label"`
	Details        map[string]string `json:"details,omitempty"`
	RequiredFields []string          `json:"requiredFields,omitempty"`
}

// CheckoutSummaryDTO is the content of the checkout step
type CheckoutSummaryDTO struct {
	Items          []CartItem               `json:"items"`
	ItemCount      int                      `json:"itemCount"`
	Total          int64                    `json:"total"`
	FormattedTotal string                   `json:"formattedTotal"`
	PaymentMethods []PaymentInstructionsDTO `json:"paymentMethods"`
}

// PurchaseResponse is returned after a completed purchase
type PurchaseResponse struct {
	Notification Notification `json:"notification"`
	Order        Order        `json:"order"`
	Cart         CartView     `json:"cart"`
}

// OrderDTO adds display formatting to an order
type OrderDTO struct {
	Order
	FormattedTotal string `json:"formattedTotal"`
}

// SessionDTO is issued when a visitor session is created
type SessionDTO struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"` // ISO 8601
}

// UserResponse is returned by sign in and by me
type UserResponse struct {
	Notification *Notification `json:"notification,omitempty"`
	User         *User         `json:"user"`
}

// TourStopDTO is one image of a virtual tour
type TourStopDTO struct {
	Image       string `json:"image"`
	Description string `json:"description"`
}

// TourDTO is a virtual tour across listings of the same type
type TourDTO struct {
	PropertyID string        `json:"propertyId"`
	Stops      []TourStopDTO `json:"stops"`
	Start      int           `json:"start"`
}

// MortgageEstimateDTO is the output of the mortgage calculator
type MortgageEstimateDTO struct {
	Price                   float64 `json:"price"`
	DownPayment             float64 `json:"downPayment"`
	Principal               float64 `json:"principal"`
	NumberOfPayments        int     `json:"numberOfPayments"`
	MonthlyPayment          float64 `json:"monthlyPayment"`
	FormattedMonthlyPayment string  `json:"formattedMonthlyPayment"`
}

// ViewingResponse confirms a viewing request
type ViewingResponse struct {
	Notification Notification `json:"notification"`
	Viewing      Viewing      `json:"viewing"`
}

// PropertyListDTO is a catalog listing page
type PropertyListDTO struct {
	Notification *Notification `json:"notification,omitempty"`
	Items        []Property    `json:"items"`
	Total        int           `json:"total"`
}

package domain

// Request bodies. Struct tags only check formats; required-field checks
// with storefront wording happen in the services.

// PropertySearchRequest filters the catalog
type PropertySearchRequest struct {
	Location string `json:"location" validate:"max=100"`
	Type     string `json:"type" validate:"max=100"`
	MaxPrice int64  `json:"maxPrice" validate:"gte=0"`
}

// CustomerInfo is the customer block of the checkout form
type CustomerInfo struct {
	Name  string `json:"name" validate:"max=200"`
	Email string `json:"email" validate:"omitempty,email,max=254"`
	Phone string `json:"phone" validate:"max=50"`
}

// PaymentDetails holds the method specific fields of the checkout form
type PaymentDetails struct {
	MpesaCode  string `json:"mpesaCode,omitempty" validate:"max=20"`
	CardNumber string `json:"cardNumber,omitempty" validate:"max=23"`
	ExpiryDate string `json:"expiryDate,omitempty" validate:"max=7"`
	CVV        string `json:"cvv,omitempty" validate:"max=4"`
}

// CompletePurchaseRequest is submitted from the checkout step
type CompletePurchaseRequest struct {
	Customer      CustomerInfo   `json:"customer"`
	PaymentMethod PaymentMethod  `json:"paymentMethod" validate:"omitempty,oneof=mpesa card bank"`
	Payment       PaymentDetails `json:"payment"`
}

// BookViewingRequest asks for an in-person viewing
type BookViewingRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Time  string `json:"time" validate:"required,datetime=15:04"`
}

// SetThemeRequest stores an explicit theme
type SetThemeRequest struct {
	Theme Theme `json:"theme" validate:"required,oneof=light dark"`
}

// SignInRequest signs a visitor in with the mock auth provider
type SignInRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
}

// MortgageRequest is the mortgage calculator input. Omitted fields take the
// calculator defaults; an omitted price uses the listing price when there is one.
type MortgageRequest struct {
	Price              *float64 `json:"price" validate:"omitempty,gte=0"`
	DownPaymentPercent *float64 `json:"downPaymentPercent" validate:"omitempty,gte=0,lte=100"`
	InterestRate       *float64 `json:"interestRate" validate:"omitempty,gte=0"`
	LoanTermYears      *float64 `json:"loanTermYears" validate:"omitempty,gt=0,lte=100"`
}

// Defaults of the mortgage calculator form
const (
	DefaultDownPaymentPercent = 20.0
	DefaultInterestRate       = 12.5
	DefaultLoanTermYears      = 20.0
	MaxLoanTermYears          = 100.0
)

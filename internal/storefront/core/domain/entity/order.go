package entity

// PaymentMethod is how the customer pays on delivery.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Cash"
	PaymentTransfer PaymentMethod = "Transfer"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentTransfer
}

type OrderLine struct {
	Salad              string   `json:"salad"`
	Quantity           int      `json:"quantity"`
	RemovedIngredients string   `json:"removedIngredients"`
	Extra              []string `json:"extra"`
}

type Customer struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Location string `json:"location,omitempty"`
}

// OrderPayload is the body submitted to the order backend.
type OrderPayload struct {
	Cart           []OrderLine   `json:"cart"`
	TotalPrice     float64       `json:"totalPrice"`
	Customer       Customer      `json:"customer"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	CashAmount     *float64      `json:"cashAmount,omitempty"`
	IncludeCutlery bool          `json:"includeCutlery"`
	Comments       string        `json:"comments,omitempty"`
}

// OrderReceipt is what the backend returns for an accepted order.
type OrderReceipt struct {
	ID string `json:"id"`
}

type ConfirmationStatus string

const (
	ConfirmationCompleted       ConfirmationStatus = "completed"
	ConfirmationAwaitingPayment ConfirmationStatus = "awaiting_payment"
)

// Confirmation is shown to the customer after a successful submission.
type Confirmation struct {
	OrderID       string             `json:"orderId,omitempty"`
	Status        ConfirmationStatus `json:"status"`
	Message       string             `json:"message"`
	TransferAlias string             `json:"transferAlias,omitempty"`
	ContactURL    string             `json:"contactUrl,omitempty"`
}

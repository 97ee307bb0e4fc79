package contracts

import "time"

// RegisterMessage is the client -> server handshake binding a live socket to
// a role and, for customers, an owner identity.
type RegisterMessage struct {
	Type       string  `json:"type"` // always "register"
	ClientType string  `json:"clientType"`
	UserID     *string `json:"userId"`
}

// Notice is an optional title/message override that customizes the text a
// client displays for an event.
type Notice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// OrderEventMessage is the server -> client envelope for one order event.
// Sound is a base64 audio enrichment attached only when the asset loaded at
// process start.
type OrderEventMessage struct {
	Type         string       `json:"type"` // always "order"
	Event        string       `json:"event"`
	Order        OrderPayload `json:"order"`
	Sound        string       `json:"sound,omitempty"`
	Notification *Notice      `json:"notification,omitempty"`
}

// CustomerPayload is the denormalized customer view on the wire.
type CustomerPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderItemPayload is the wire format for a single line item.
type OrderItemPayload struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"` // unit price in dollars
}

// OrderPayload is the fully resolved order snapshot on the wire.
type OrderPayload struct {
	ID            string             `json:"id"`
	OrderNumber   int64              `json:"orderNumber,omitempty"`
	DisplayNumber string             `json:"displayNumber"`
	Customer      *CustomerPayload   `json:"customer,omitempty"`
	Items         []OrderItemPayload `json:"items"`
	TotalAmount   float64            `json:"totalAmount"` // in dollars
	Status        string             `json:"status"`
	Paid          bool               `json:"paid"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

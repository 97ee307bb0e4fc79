package customers

import "time"

// Customer is a registered storefront account.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// View is the denormalized customer projection attached to resolved orders.
// It carries only what order consumers (admin dashboard, emails) display.
type View struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// AsView projects the customer into its denormalized order view.
func (customer Customer) AsView() View {
	return View{
		ID:    customer.ID,
		Name:  customer.Name,
		Email: customer.Email,
		Phone: customer.Phone,
	}
}
